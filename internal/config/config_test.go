package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  host: db.internal
  user: icons
  dbname: icons
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Cache.Disabled)
	assert.Equal(t, 24*time.Hour, cfg.Cache.MetadataTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.ContentTTL)
	assert.Equal(t, 1000, cfg.Cache.MemoryMaxEntries)
	assert.Equal(t, []string{"data/icons.json", "../data/icons.json"}, cfg.Catalog.Paths)
	assert.Equal(t, 64, cfg.Catalog.DefaultIconSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  host: db.internal
  user: icons
  dbname: icons
`)

	t.Setenv("SERVER_PORT", "8123")
	t.Setenv("DB_HOST", "other.internal")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("ICON_CACHE_TTL", "2h")
	t.Setenv("MEMORY_CACHE_SIZE", "50")
	t.Setenv("CATALOG_PATHS", "a.json, b.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "other.internal", cfg.Database.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Cache.MetadataTTL)
	assert.Equal(t, 50, cfg.Cache.MemoryMaxEntries)
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Catalog.Paths)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultServerPort, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(_ *Config) {},
			wantErr: "",
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database.host",
		},
		{
			name:    "no catalog candidates",
			mutate:  func(c *Config) { c.Catalog.Paths = nil },
			wantErr: "catalog.paths",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

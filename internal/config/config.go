// Package config loads icon-catalog service configuration from a YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultServerPort      = 8090
	defaultServerTimeout   = 30 * time.Second
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 20
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultRedisAddress    = "localhost:6379"

	defaultMetadataTTL      = 24 * time.Hour
	defaultContentTTL       = 7 * 24 * time.Hour
	defaultMemoryMaxEntries = 1000
	defaultIconSize         = 64
)

type Config struct {
	Debug    bool           `env:"APP_DEBUG" yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds connection settings for the distributed cache tier.
// Enabled is a feature flag: when false, the service runs with the
// in-process tier only.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
	Enabled  bool   `env:"REDIS_ENABLED"  yaml:"enabled"`
}

// CacheConfig holds tiered cache tuning. Content TTL is much longer than
// metadata TTL since sanitized/resized output is immutable for a given
// icon+size as long as the source bytes don't change. Caching is on unless
// explicitly disabled.
type CacheConfig struct {
	Disabled         bool          `env:"CACHE_DISABLED"    yaml:"disabled"`
	MetadataTTL      time.Duration `env:"ICON_CACHE_TTL"    yaml:"metadata_ttl"`
	ContentTTL       time.Duration `env:"SVG_CACHE_TTL"     yaml:"content_ttl"`
	MemoryMaxEntries int           `env:"MEMORY_CACHE_SIZE" yaml:"memory_max_entries"`
}

// CatalogConfig locates the flat-catalog fallback file and the content
// store roots. Both are candidate lists tried in order.
type CatalogConfig struct {
	Paths           []string `env:"CATALOG_PATHS" yaml:"paths"`
	ContentRoots    []string `env:"CONTENT_ROOTS" yaml:"content_roots"`
	DefaultIconSize int      `yaml:"default_icon_size"`
	WatchCatalog    bool     `yaml:"watch_catalog"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if len(c.Catalog.Paths) == 0 {
		return errors.New("catalog.paths must have at least one candidate")
	}
	if len(c.Catalog.ContentRoots) == 0 {
		return errors.New("catalog.content_roots must have at least one candidate")
	}
	return nil
}

// Load reads, defaults, and validates configuration from path.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("invalid config: %w", validationErr)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "cloudicons"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "cloudicons"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}

	if cfg.Cache.MetadataTTL == 0 {
		cfg.Cache.MetadataTTL = defaultMetadataTTL
	}
	if cfg.Cache.ContentTTL == 0 {
		cfg.Cache.ContentTTL = defaultContentTTL
	}
	if cfg.Cache.MemoryMaxEntries == 0 {
		cfg.Cache.MemoryMaxEntries = defaultMemoryMaxEntries
	}

	if len(cfg.Catalog.Paths) == 0 {
		cfg.Catalog.Paths = []string{
			"data/icons.json",
			"../data/icons.json",
		}
	}
	if len(cfg.Catalog.ContentRoots) == 0 {
		cfg.Catalog.ContentRoots = []string{
			"public",
			"../public",
			"/app/public",
		}
	}
	if cfg.Catalog.DefaultIconSize == 0 {
		cfg.Catalog.DefaultIconSize = defaultIconSize
	}
}

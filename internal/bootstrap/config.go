package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/config"
)

const defaultConfigPath = "config.yml"

// LoadConfig loads and validates the service configuration.
func LoadConfig() (*config.Config, error) {
	path := config.GetConfigPath(defaultConfigPath)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}
	return cfg, nil
}

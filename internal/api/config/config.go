package config

import (
	"time"

	"golang-stock-insight/pkg/config"
)

// API holds API-service-specific configuration.
type API struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// MaxConcurrentEnrich bounds the per-stock enrichment fan-out in list mode.
	MaxConcurrentEnrich int `mapstructure:"max_concurrent_enrich"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App        config.App        `mapstructure:"app"`
	Logger     config.Logger     `mapstructure:"logger"`
	Database   config.Database   `mapstructure:"database"`
	Redis      config.Redis      `mapstructure:"redis"`
	Datasource config.Datasource `mapstructure:"datasource"`
	API        API               `mapstructure:"api"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.API.CacheTTL == 0 {
		cfg.API.CacheTTL = 60 * time.Second
	}
	if cfg.API.MaxConcurrentEnrich <= 0 {
		cfg.API.MaxConcurrentEnrich = 8
	}
	return &cfg, nil
}

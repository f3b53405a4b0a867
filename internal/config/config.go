// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Addr             string        `env:"SEARCH_ADDR" envDefault:":8080"`
	CacheTTL         time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"1h"`
	CacheSize        int           `env:"SEARCH_CACHE_SIZE" envDefault:"1000"`
	RateMax          int           `env:"SEARCH_RATE_MAX" envDefault:"10"`
	RateWindow       time.Duration `env:"SEARCH_RATE_WINDOW" envDefault:"60s"`
	HTTPTimeout      time.Duration `env:"SEARCH_HTTP_TIMEOUT" envDefault:"15s"`
	DefaultProviders []string      `env:"SEARCH_DEFAULT_PROVIDERS" envDefault:"duckduckgo,bing"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures the configuration values are usable
func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("SEARCH_CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	if c.RateMax <= 0 {
		return fmt.Errorf("SEARCH_RATE_MAX must be positive, got %d", c.RateMax)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("SEARCH_RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if len(c.DefaultProviders) == 0 {
		return fmt.Errorf("SEARCH_DEFAULT_PROVIDERS must name at least one provider")
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"dev"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	UpstreamBaseURL       string        `envconfig:"UPSTREAM_BASE_URL" default:""`
	UpstreamAPIKey        string        `envconfig:"UPSTREAM_API_KEY" default:""`
	UpstreamTimeout       time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"5s"`
	UpstreamRetryAttempts uint          `envconfig:"UPSTREAM_RETRY_ATTEMPTS" default:"3"`
	UpstreamRetryDelay    time.Duration `envconfig:"UPSTREAM_RETRY_DELAY" default:"200ms"`

	CacheSize       int           `envconfig:"CACHE_SIZE" default:"1024"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"5m"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative, got %s", c.RefreshInterval)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// SourceKind reports which team source the configuration selects.
// An upstream provider wins over a database when both are set.
func (c *Config) SourceKind() string {
	switch {
	case c.UpstreamBaseURL != "":
		return "upstream"
	case c.DatabaseURL != "":
		return "postgres"
	default:
		return "placeholder"
	}
}

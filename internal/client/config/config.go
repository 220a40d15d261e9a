package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the VTV client.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	APIBaseURL     string
	APIVersion     string
	RequestTimeout time.Duration

	StoreDriver   string
	StorePath     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	LogLevel  string
	LogFormat string

	// WatchSession prints session state changes in the CLI.
	WatchSession bool
}

var (
	ErrInvalidBaseURL     = errors.New("invalid api base url")
	ErrInvalidStoreDriver = errors.New("invalid store driver")
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.APIVersion = "v1"
	c.RequestTimeout = 10 * time.Second
	c.StoreDriver = "sqlite"
	c.StorePath = "data/session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "vtv:session:"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.WatchSession = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env included), a JSON or YAML file (if given) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv(".env")
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks the settings that cannot be defaulted away.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.APIBaseURL)
	}
	switch c.StoreDriver {
	case "sqlite":
		if c.StorePath == "" {
			return fmt.Errorf("%w: sqlite needs a store path", ErrInvalidStoreDriver)
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis needs an address", ErrInvalidStoreDriver)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreDriver, c.StoreDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

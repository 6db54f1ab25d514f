package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/activityhub/internal/flagx"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ACTIVITYHUB"

// Config holds runtime settings for the activityhub client.
type Config struct {
	BaseURL        string        `envconfig:"BASE_URL"`
	DatabasePath   string        `envconfig:"DATABASE_PATH"`
	WatchInterval  time.Duration `envconfig:"WATCH_INTERVAL"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	LogFormat      string        `envconfig:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api"
	c.DatabasePath = "activityhub.db"
	c.WatchInterval = 5 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, the JSON file, the environment and
// args (os.Args[1:] without the program name), in that order. It returns
// the arguments left after the flags, i.e. the subcommand and its operands.
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, nil, fmt.Errorf("read environment: %w", err)
	}

	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.WatchInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}

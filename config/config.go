// Package config loads the client configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings consumed by the CLI.
type Config struct {
	// BaseURL is the backend API root, e.g. "http://localhost:8787/api".
	BaseURL string `yaml:"base_url"`
	// Timeout bounds a whole streaming request. Zero means no client-side
	// deadline; the stream runs until the server closes it or the request
	// is aborted.
	Timeout time.Duration `yaml:"timeout"`
	// Locale is forwarded on agent runs.
	Locale string `yaml:"locale"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		BaseURL:  "http://localhost:8787/api",
		Locale:   "en-US",
		LogLevel: "info",
	}
}

// Load reads a YAML config file, applies env var overrides, and validates
// the result. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			if err := cfg.validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLUME_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("FLUME_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("FLUME_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid base_url %q", c.BaseURL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", c.Timeout)
	}
	return nil
}

// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for histfacts configuration.
	DefaultConfigDir = ".histfacts"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HISTFACTS_"
)

// Config holds static configuration (read-only after load).
type Config struct {
	Parse   ParseConfig   `yaml:"parse,omitempty"`
	Fetch   FetchConfig   `yaml:"fetch,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	Journal JournalConfig `yaml:"journal,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// ParseConfig holds the Parse Server connection settings.
type ParseConfig struct {
	ServerURL     string        `yaml:"server_url,omitempty" env:"SERVER_URL"`
	ApplicationID string        `yaml:"application_id,omitempty" env:"APPLICATION_ID"`
	ClientKey     string        `yaml:"client_key,omitempty" env:"CLIENT_KEY"`
	RESTAPIKey    string        `yaml:"rest_api_key,omitempty" env:"REST_API_KEY"`
	Function      string        `yaml:"function,omitempty" env:"FUNCTION"`
	Timeout       time.Duration `yaml:"timeout,omitempty" env:"TIMEOUT"`
}

// FetchConfig holds the retry policy of a fetch cycle.
type FetchConfig struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty" env:"MAX_ATTEMPTS"`
	RetryDelay  time.Duration `yaml:"retry_delay,omitempty" env:"RETRY_DELAY"`
}

// NotifyConfig holds notification settings.
type NotifyConfig struct {
	Duration time.Duration `yaml:"duration,omitempty" env:"NOTIFY_DURATION"`
}

// JournalConfig holds configuration for the attempt journal.
type JournalConfig struct {
	// Path is the SQLite database path. ":memory:" keeps the journal for
	// the lifetime of the process only.
	Path string `yaml:"path,omitempty" env:"JOURNAL_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" env:"LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"LOG_FORMAT"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			ServerURL: "https://examenes.meeplab.com/parse",
			Function:  "hello",
			Timeout:   30 * time.Second,
		},
		Fetch: FetchConfig{
			MaxAttempts: 5,
			RetryDelay:  2 * time.Second,
		},
		Notify: NotifyConfig{
			Duration: 3 * time.Second,
		},
		Journal: JournalConfig{
			Path: ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the .histfacts directory in the given path.
// A missing config file is not an error: defaults and environment
// overrides still apply.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigFilePath(basePath))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies HISTFACTS_* environment variable overrides.
// Unset variables leave the loaded values untouched.
func (c *Config) applyEnvOverrides() error {
	opts := env.Options{Prefix: EnvPrefix}
	for _, target := range []any{&c.Parse, &c.Fetch, &c.Notify, &c.Journal, &c.Log} {
		if err := env.Parse(target, opts); err != nil {
			return fmt.Errorf("parsing environment: %w", err)
		}
	}
	return nil
}

// Validate checks that the configuration can be used to build a client.
func (c *Config) Validate() error {
	if c.Parse.ServerURL == "" {
		return errors.New("parse.server_url is required")
	}
	u, err := url.Parse(c.Parse.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("parse.server_url must be an absolute http(s) URL, got %q", c.Parse.ServerURL)
	}
	if c.Parse.ApplicationID == "" {
		return fmt.Errorf("parse.application_id is required (or set %sAPPLICATION_ID)", EnvPrefix)
	}
	if c.Parse.Function == "" {
		return errors.New("parse.function is required")
	}
	if c.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch.max_attempts must be at least 1, got %d", c.Fetch.MaxAttempts)
	}
	if c.Fetch.RetryDelay < 0 {
		return fmt.Errorf("fetch.retry_delay must not be negative, got %s", c.Fetch.RetryDelay)
	}
	return nil
}

// ConfigDir returns the path to the .histfacts config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

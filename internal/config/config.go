// Package config loads the console configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all Coinfixi console configuration.
type Config struct {
	API     APIConfig     `yaml:"api" envPrefix:"COINFIXI_"`
	Session SessionConfig `yaml:"session" envPrefix:"COINFIXI_"`
	UI      UIConfig      `yaml:"ui" envPrefix:"COINFIXI_"`
	Gateway GatewayConfig `yaml:"gateway" envPrefix:"COINFIXI_"`
	Journal JournalConfig `yaml:"journal" envPrefix:"COINFIXI_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"COINFIXI_"`
}

// APIConfig configures the upstream admin API.
type APIConfig struct {
	BaseURL   string  `yaml:"base_url" env:"API_BASE"`
	Timeout   string  `yaml:"timeout" env:"TIMEOUT"`
	RateLimit float64 `yaml:"rate_limit" env:"RATE_LIMIT"` // requests per second, 0 disables
	Burst     int     `yaml:"burst" env:"RATE_BURST"`
	PageSize  int     `yaml:"page_size" env:"PAGE_SIZE"`
}

// SessionConfig locates the persisted login session.
type SessionConfig struct {
	Path string `yaml:"path" env:"SESSION_FILE"`
}

// UIConfig configures the interactive console.
type UIConfig struct {
	Theme           string `yaml:"theme" env:"THEME"` // light, dark, auto
	RefreshInterval string `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
}

// GatewayConfig configures fixi serve.
type GatewayConfig struct {
	Addr            string `yaml:"addr" env:"GATEWAY_ADDR"`
	ShutdownTimeout string `yaml:"shutdown_timeout" env:"GATEWAY_SHUTDOWN_TIMEOUT"`
	BuildID         string `yaml:"build_id" env:"BUILD_ID"`
}

// JournalConfig locates the local action journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" env:"JOURNAL_ENABLED"`
	Path    string `yaml:"path" env:"JOURNAL_DB"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" env:"LOG_LEVEL"` // debug, info, warn, error
	Format     string          `yaml:"format" env:"LOG_FORMAT"` // json, text
	File       string          `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int             `yaml:"max_size_mb"`
	MaxBackups int             `yaml:"max_backups"`
	MaxAgeDays int             `yaml:"max_age_days"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// Dir returns the directory holding config, session, journal and logs.
func Dir() string {
	if d := os.Getenv("COINFIXI_HOME"); d != "" {
		return d
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".coinfixi"
	}
	return filepath.Join(base, "coinfixi")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   "30s",
			RateLimit: 10,
			Burst:     5,
			PageSize:  25,
		},
		Session: SessionConfig{
			Path: filepath.Join(dir, "session.yaml"),
		},
		UI: UIConfig{
			Theme:           "auto",
			RefreshInterval: "0s",
		},
		Gateway: GatewayConfig{
			Addr:            ":3000",
			ShutdownTimeout: "10s",
			BuildID:         "dev",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "journal.db"),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       filepath.Join(dir, "logs", "fixi.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides only touches fields whose variables are set.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	// Variable used by the original web dashboard.
	if base := os.Getenv("NEXT_PUBLIC_API_BASE"); base != "" && os.Getenv("COINFIXI_API_BASE") == "" {
		c.API.BaseURL = base
	}
	return nil
}

// Validate checks the values the console cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q (set COINFIXI_API_BASE)", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must be http or https, got %q", u.Scheme)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api rate_limit must not be negative")
	}
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui theme %q (valid: auto, light, dark)", c.UI.Theme)
	}
	return nil
}

// GetAPITimeout returns the API timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	return parseDuration(c.API.Timeout, 30*time.Second)
}

// GetRefreshInterval returns the console auto-refresh interval; 0 disables it.
func (c *Config) GetRefreshInterval() time.Duration {
	return parseDuration(c.UI.RefreshInterval, 0)
}

// GetShutdownTimeout returns the gateway graceful shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Gateway.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

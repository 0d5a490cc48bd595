package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// DefaultIconPath is the generic executable icon shipped with macOS.
const DefaultIconPath = "/System/Library/CoreServices/CoreTypes.bundle/Contents/Resources/ExecutableBinaryIcon.icns"

// Listing sources understood by ListingConfig.Source.
const (
	SourcePS       = "ps"
	SourceGopsutil = "gopsutil"
)

// Config holds all application configuration.
type Config struct {
	Listing ListingConfig
	Icons   IconConfig
	Server  ServerConfig
	Logging LogConfig
}

// ListingConfig selects how the process table is obtained.
type ListingConfig struct {
	Source string `envconfig:"KILLPROC_SOURCE"`
	PSBin  string `envconfig:"KILLPROC_PS_BIN"`
}

// IconConfig holds icon resolution settings.
type IconConfig struct {
	DefaultIcon string `envconfig:"KILLPROC_DEFAULT_ICON"`
}

// ServerConfig holds HTTP mode configuration. An empty Addr means one-shot CLI mode.
type ServerConfig struct {
	Addr         string   `envconfig:"KILLPROC_HTTP_ADDR"`
	RateLimitRPS int      `envconfig:"KILLPROC_RATE_LIMIT_RPS"`
	RateBurst    int      `envconfig:"KILLPROC_RATE_LIMIT_BURST"`
	AllowedIPs   []string `envconfig:"KILLPROC_ALLOWED_IPS"`

	// TrustedProxies may set X-Forwarded-For and X-Real-IP. Empty trusts none.
	TrustedProxies []string `envconfig:"KILLPROC_TRUSTED_PROXIES"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL"`
	Development bool   `envconfig:"LOG_DEV"`
}

// Load starts from Default and overrides it with any variables set in the
// environment.
func Load() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Listing: ListingConfig{
			Source: SourcePS,
			PSBin:  "ps",
		},
		Icons: IconConfig{
			DefaultIcon: DefaultIconPath,
		},
		Server: ServerConfig{
			RateLimitRPS: 100,
			RateBurst:    200,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate rejects settings the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Listing.Source {
	case SourcePS, SourceGopsutil:
	default:
		return fmt.Errorf("unknown listing source %q", c.Listing.Source)
	}
	if c.Icons.DefaultIcon == "" {
		return fmt.Errorf("default icon path must not be empty")
	}
	return nil
}

// HTTPMode reports whether the program should serve results over HTTP.
func (c *Config) HTTPMode() bool {
	return c.Server.Addr != ""
}

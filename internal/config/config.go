// Package config provides Viper-based configuration management for dolabbctl
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOLABBCTL_API_BASE_URL.
const EnvPrefix = "DOLABBCTL"

// Config represents the complete dolabbctl configuration
type Config struct {
	API       APIConfig                   `mapstructure:"api"`
	Session   SessionConfig               `mapstructure:"session"`
	Logging   LoggingConfig               `mapstructure:"logging"`
	Output    OutputConfig                `mapstructure:"output"`
	Web       WebConfig                   `mapstructure:"web"`
	Telemetry TelemetryConfig             `mapstructure:"telemetry"`
	Resources map[string]ResourceOverride `mapstructure:"resources"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// APIConfig contains backend connection settings
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ListTimeout time.Duration `mapstructure:"list_timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	Burst       int           `mapstructure:"burst"`
	PageSize    int           `mapstructure:"page_size"`
}

// SessionConfig contains credential storage settings
type SessionConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// WebConfig contains local console settings
type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// TelemetryConfig contains tracing settings for the web console. An empty
// endpoint keeps spans in-process, where they still stamp log records.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// ResourceOverride contains per-resource list settings. Zero values fall
// back to the api section.
type ResourceOverride struct {
	ListTimeout time.Duration `mapstructure:"list_timeout"`
	PageSize    int           `mapstructure:"page_size"`
}

// Load reads configuration from .env, file and environment variables
func Load(cfgFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config file if specified
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .dolabbctl.yaml
		v.SetConfigName(".dolabbctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dolabbctl")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from path into the process environment
// without overriding ones already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "https://dolabb-backend-2vsj.onrender.com")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.list_timeout", 15*time.Second)
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.burst", 5)
	v.SetDefault("api.page_size", 20)

	// Session defaults
	v.SetDefault("session.file", defaultSessionFile())

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.colors", true)

	// Web console defaults
	v.SetDefault("web.addr", "127.0.0.1:8787")

	// Telemetry defaults
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dolabbctl-session.json"
	}
	return filepath.Join(home, ".config", "dolabbctl", "session.json")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	// Validate base URL
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %q (must be an absolute http or https URL)", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout: %s (must be positive)", cfg.API.Timeout)
	}
	if cfg.API.ListTimeout <= 0 {
		return fmt.Errorf("invalid api.list_timeout: %s (must be positive)", cfg.API.ListTimeout)
	}
	if cfg.API.PageSize <= 0 {
		return fmt.Errorf("invalid api.page_size: %d (must be positive)", cfg.API.PageSize)
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("invalid api.rate_limit: %g (must not be negative)", cfg.API.RateLimit)
	}

	for name, o := range cfg.Resources {
		if o.ListTimeout < 0 {
			return fmt.Errorf("invalid resources.%s.list_timeout: %s", name, o.ListTimeout)
		}
		if o.PageSize < 0 {
			return fmt.Errorf("invalid resources.%s.page_size: %d", name, o.PageSize)
		}
	}

	if r := cfg.Telemetry.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("invalid telemetry.sample_ratio: %g (must be between 0 and 1)", r)
	}

	if cfg.Session.File == "" {
		return fmt.Errorf("session.file must be set")
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}

// ListTimeout returns the list timeout for a resource
func (c *Config) ListTimeout(resource string) time.Duration {
	if o, ok := c.Resources[resource]; ok && o.ListTimeout > 0 {
		return o.ListTimeout
	}
	return c.API.ListTimeout
}

// PageSize returns the page size for a resource
func (c *Config) PageSize(resource string) int {
	if o, ok := c.Resources[resource]; ok && o.PageSize > 0 {
		return o.PageSize
	}
	return c.API.PageSize
}

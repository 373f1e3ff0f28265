// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"gym-pricing/core/pricing"
	"gym-pricing/core/types"
	"gym-pricing/internal/errors"
	"gym-pricing/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "GYM_PRICING_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Catalog contains plan catalog configuration
	Catalog CatalogConfig `json:"catalog"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is stamped on every quote
	Currency types.Currency `json:"currency"`

	// Rules apply unless the catalog file declares its own rules block
	Rules pricing.Rules `json:"rules"`
}

// CatalogConfig contains catalog settings
type CatalogConfig struct {
	// Path is an HCL catalog file; empty uses the built-in plans
	Path string `json:"path,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`
}

// envOverrides maps GYM_PRICING_* variables onto a Config
type envOverrides struct {
	Catalog   string `env:"CATALOG"`
	Format    string `env:"FORMAT"`
	Currency  string `env:"CURRENCY"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
	LogOutput string `env:"LOG_OUTPUT"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Currency: types.CurrencyUSD,
			Rules:    pricing.DefaultRules(),
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.gym-pricing.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gym-pricing.json"
	}
	return filepath.Join(homeDir, ".gym-pricing.json")
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to decode config", err).WithContext("path", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks the pricing rules
func (c *Config) Validate() error {
	if err := c.Pricing.Rules.Validate(); err != nil {
		return errors.Config("invalid pricing rules", err)
	}
	return nil
}

// ApplyEnv overlays GYM_PRICING_* variables, reading a .env file from the
// working directory first when one exists.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Config("failed to load .env", err)
	}

	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Config("failed to parse environment", err)
	}

	if o.Catalog != "" {
		c.Catalog.Path = o.Catalog
	}
	if o.Format != "" {
		c.Output.DefaultFormat = o.Format
	}
	if o.Currency != "" {
		c.Pricing.Currency = types.Currency(o.Currency)
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.LogOutput != "" {
		c.Logging.Output = o.LogOutput
	}
	return nil
}

// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"co2js-plugin/internal/errors"
	"co2js-plugin/internal/logging"
)

// EnvPrefix prefixes every environment variable override, e.g. CO2JS_LOG_LEVEL
const EnvPrefix = "CO2JS"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" ignored:"true"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" envconfig:"LOG"`

	// Output contains output configuration
	Output OutputConfig `json:"output" envconfig:"OUTPUT"`

	// Model contains model plugin configuration
	Model ModelConfig `json:"model" envconfig:"MODEL"`

	// Metrics contains metrics configuration
	Metrics MetricsConfig `json:"metrics" envconfig:"METRICS"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the default output format
	Format string `json:"format" envconfig:"FORMAT" validate:"oneof=yaml json"`
}

// ModelConfig contains model plugin settings
type ModelConfig struct {
	// DefaultType is applied beneath manifest config; empty leaves the
	// model type to the manifest
	DefaultType string `json:"default_type" envconfig:"DEFAULT" validate:"omitempty,oneof=1byte swd"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	// Textfile is where metrics are written after a run, if set
	Textfile string `json:"textfile,omitempty" envconfig:"TEXTFILE"`
}

// DefaultPath returns the default configuration file location
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".co2js.json")
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Logging: logging.DefaultConfig(),
		Output: OutputConfig{
			Format: "yaml",
		},
	}
}

// Load loads configuration from a file, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Parsing("invalid configuration file", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid environment override", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

var validate = validator.New()

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.TypeConfig, "invalid configuration", err)
	}
	return nil
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

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

package config

import (
	"fmt"
	"os"

	"card-intake/pkg/constants"
	"card-intake/pkg/types"
)

// Default values for runtime settings
const (
	DefaultLogLevel      = "info"
	DefaultEnableVerbose = false
	DefaultBackend       = types.BackendAuto
)

// Config holds application configuration
type Config struct {
	// External tool paths (persisted to the config file)
	TesseractPath string `json:"tesseract_path"`

	// Runtime settings (not persisted to file)
	VaultRoot       string        `json:"-"` // base for the default vault-relative paths
	InputDir        string        `json:"-"`
	OutputDir       string        `json:"-"`
	NotesDir        string        `json:"-"`
	TemplatePath    string        `json:"-"`
	KeywordsPath    string        `json:"-"` // optional YAML keyword-table override
	WikiImagePrefix string        `json:"-"`
	Backend         types.Backend `json:"-"`
	OverwriteNotes  bool          `json:"-"`
	DryRun          bool          `json:"-"`
	LogLevel        string        `json:"-"`
	EnableVerbose   bool          `json:"-"`
}

// DefaultConfig returns the configuration by loading from file or
// creating a default one
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to load config file, using basic defaults: %v\n", err)
		config = &Config{}
		applyRuntimeDefaults(config)
	}
	return config
}

// LoadConfigWithEnvOverrides loads config from file and applies
// environment variable overrides
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()

	if value := os.Getenv("CARD_INTAKE_TESSERACT_PATH"); value != "" {
		config.TesseractPath = value
	}
	if value := os.Getenv("CARD_INTAKE_BACKEND"); value != "" {
		config.Backend = types.Backend(value)
	}
	if value := os.Getenv("CARD_INTAKE_LOG_LEVEL"); value != "" {
		config.LogLevel = value
	}
	if value := os.Getenv("CARD_INTAKE_VERBOSE"); value != "" {
		config.EnableVerbose = value == "true" || value == "1" || value == "yes"
	}

	return config
}

// applyRuntimeDefaults fills the non-persisted settings
func applyRuntimeDefaults(c *Config) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	c.VaultRoot = cwd
	c.WikiImagePrefix = constants.DefaultWikiImagePrefix
	c.Backend = DefaultBackend
	c.LogLevel = DefaultLogLevel
	c.EnableVerbose = DefaultEnableVerbose
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Backend: %s, LogLevel: %s, Verbose: %v, DryRun: %v}",
		c.Backend, c.LogLevel, c.EnableVerbose, c.DryRun)
}

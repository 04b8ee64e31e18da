package config

import (
	"fmt"
	"strings"

	"card-intake/pkg/types"
	"card-intake/pkg/utils"
)

// ConfigValidator validates runtime configuration before a run starts
type ConfigValidator struct{}

// NewConfigValidator creates a config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate validates the configuration
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateBackend(c.Backend); err != nil {
		errors = append(errors, err.Error())
	}
	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

// validateBackend checks the backend selection value
func (v *ConfigValidator) validateBackend(backend types.Backend) error {
	switch backend {
	case types.BackendAuto, types.BackendTesseract, types.BackendNone:
		return nil
	}
	return fmt.Errorf("invalid backend: %s (expected auto, tesseract, or none)", backend)
}

// validateLogLevel checks the log level value
func (v *ConfigValidator) validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}

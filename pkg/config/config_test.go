package config

import (
	"testing"

	"card-intake/pkg/types"
)

func validConfig() *Config {
	return &Config{
		Backend:  types.BackendAuto,
		LogLevel: "info",
	}
}

func TestValidateAcceptsKnownValues(t *testing.T) {
	for _, backend := range []types.Backend{types.BackendAuto, types.BackendTesseract, types.BackendNone} {
		cfg := validConfig()
		cfg.Backend = backend
		if err := cfg.Validate(); err != nil {
			t.Errorf("backend %s rejected: %v", backend, err)
		}
	}
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("log level %s rejected: %v", level, err)
		}
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := validConfig()
	cfg.Backend = "ocr9000"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend accepted")
	}

	cfg = validConfig()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log level accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CARD_INTAKE_TESSERACT_PATH", "/opt/bin/tesseract")
	t.Setenv("CARD_INTAKE_BACKEND", "none")
	t.Setenv("CARD_INTAKE_LOG_LEVEL", "debug")
	t.Setenv("CARD_INTAKE_VERBOSE", "1")
	t.Setenv("HOME", t.TempDir())

	cfg := LoadConfigWithEnvOverrides()
	if cfg.TesseractPath != "/opt/bin/tesseract" {
		t.Errorf("tesseract path = %q", cfg.TesseractPath)
	}
	if cfg.Backend != types.BackendNone {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if !cfg.EnableVerbose {
		t.Error("verbose override not applied")
	}
}

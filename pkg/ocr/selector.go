package ocr

import (
	"context"
	"fmt"

	"card-intake/pkg/config"
	"card-intake/pkg/interfaces"
	"card-intake/pkg/logger"
	"card-intake/pkg/types"
	"card-intake/pkg/utils"
)

// NoneBackend produces zero observations for every card. Names fall
// back to the source filename stem and method stays "none".
type NoneBackend struct{}

// Name returns the backend name as recorded in the run log
func (b *NoneBackend) Name() string {
	return "none"
}

// Description returns a human-readable description of the backend
func (b *NoneBackend) Description() string {
	return "No OCR; cards keep their existing filenames"
}

// Available always reports true
func (b *NoneBackend) Available() bool {
	return true
}

// Observe returns no observations
func (b *NoneBackend) Observe(ctx context.Context, imagePath string) ([]types.Observation, error) {
	return nil, nil
}

// SelectBackend resolves the configured backend policy to a concrete
// backend, once, at startup. Auto prefers tesseract when installed and
// otherwise degrades to the none backend; an explicitly requested
// tesseract that is missing is a fatal setup error.
func SelectBackend(cfg *config.Config, log *logger.Logger) (interfaces.Backend, error) {
	switch cfg.Backend {
	case types.BackendNone:
		return &NoneBackend{}, nil

	case types.BackendTesseract:
		backend := NewTesseractBackend(cfg.TesseractPath, log)
		if !backend.Available() {
			return nil, utils.NewValidationError(
				"tesseract not found; install tesseract or use --backend none", nil)
		}
		return backend, nil

	case types.BackendAuto:
		backend := NewTesseractBackend(cfg.TesseractPath, log)
		if backend.Available() {
			return backend, nil
		}
		log.Warn("tesseract not found, proceeding without OCR")
		return &NoneBackend{}, nil
	}

	return nil, utils.NewValidationError(fmt.Sprintf("unknown backend: %s", cfg.Backend), nil)
}

var _ interfaces.Backend = (*NoneBackend)(nil)

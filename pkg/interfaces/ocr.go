package interfaces

import (
	"context"

	"card-intake/pkg/types"
)

// Backend defines the interface for OCR backend implementations
type Backend interface {
	// Name returns the backend name as recorded in the run log
	Name() string

	// Observe runs OCR on an image and returns aggregated text lines.
	// The image file is never modified. A failed tool invocation or
	// unreadable output returns a backend or parse error; both degrade
	// only the card being processed.
	Observe(ctx context.Context, imagePath string) ([]types.Observation, error)

	// Available reports whether the backend's external tool can be used
	Available() bool

	// Description returns a human-readable description of the backend
	Description() string
}

package utils

import "fmt"

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeSystem     ErrorType = "system"

	// ErrorTypeBackend marks OCR backend failures: non-zero tool exit,
	// tool missing at run time, unreadable tool output.
	ErrorTypeBackend ErrorType = "backend"

	// ErrorTypeParse marks output the adapter cannot interpret, such as
	// missing columns in tesseract's TSV table.
	ErrorTypeParse ErrorType = "parse"
)

// AppError represents an application-specific error with a type tag.
// Backend and parse errors degrade a single card; everything else
// aborts the run.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target by type
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type
	}
	return false
}

// NewError creates a new application error
func NewError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errorType, Message: message, Cause: cause}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewError(ErrorTypeValidation, message, cause)
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return NewError(ErrorTypeIO, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string, cause error) *AppError {
	return NewError(ErrorTypeNotFound, message, cause)
}

// NewBackendError creates an OCR backend error
func NewBackendError(message string, cause error) *AppError {
	return NewError(ErrorTypeBackend, message, cause)
}

// NewParseError creates an OCR output parse error
func NewParseError(message string, cause error) *AppError {
	return NewError(ErrorTypeParse, message, cause)
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Type: errorType, Message: message, Cause: err}
}

// GetErrorType extracts the error type from an error
func GetErrorType(err error) ErrorType {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type
	}
	return ErrorTypeSystem
}

// IsCardRecoverable reports whether an error should degrade a single
// card to method "error" instead of aborting the whole run. Only the
// enumerated backend and parse kinds qualify; unexpected errors
// propagate.
func IsCardRecoverable(err error) bool {
	switch GetErrorType(err) {
	case ErrorTypeBackend, ErrorTypeParse:
		return true
	default:
		return false
	}
}

package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrFormat           = errors.New("malformed model document")
	ErrVersionMismatch  = errors.New("unsupported format version")
	ErrChecksumMismatch = errors.New("checksum mismatch: document may be corrupted")
)

// FormatError provides detailed information about a rejected document.
//
// It unwraps to ErrFormat and, when set, to the underlying cause.
type FormatError struct {
	Type    string // Type of error (e.g., "syntax", "shape", "weights")
	Layer   int    // Index of the offending layer, -1 if not layer specific
	Details string // Additional details
	Err     error  // Underlying cause, may be nil
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Layer >= 0 {
		return fmt.Sprintf("%v: %s: layer %d: %s", ErrFormat, e.Type, e.Layer, e.Details)
	}
	return fmt.Sprintf("%v: %s: %s", ErrFormat, e.Type, e.Details)
}

// Unwrap returns ErrFormat and the underlying cause.
func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

func formatError(typ string, layer int, format string, args ...any) *FormatError {
	return &FormatError{Type: typ, Layer: layer, Details: fmt.Sprintf(format, args...)}
}

package celestial

import (
	"errors"
	"fmt"
)

// Load and validation errors.
var (
	// ErrNotFound indicates the requested system file does not exist.
	ErrNotFound = errors.New("celestial: system file not found")

	// ErrMalformed indicates system data that cannot be reconstructed.
	ErrMalformed = errors.New("celestial: malformed system data")

	// ErrUnsupportedFormat indicates an encoding other than json or yaml.
	ErrUnsupportedFormat = errors.New("celestial: unsupported format")
)

// DecodeError locates a validation failure inside a system document.
type DecodeError struct {
	Body   string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: %s: %s", ErrMalformed, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: body %q: %s: %s", ErrMalformed, e.Body, e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformed
}

package analysis

import "errors"

var (
	ErrTooShort     = errors.New("analysis: series too short")
	ErrNoSignal     = errors.New("analysis: series has no periodic component")
	ErrNoSeparation = errors.New("analysis: runs do not separate")
	ErrMismatch     = errors.New("analysis: systems do not match")
)

package engine

import (
	"errors"
	"fmt"
)

// The engine never changes state when it returns one of these.
var (
	ErrUnknownModel        = errors.New("engine: unknown force model")
	ErrUnknownIntegrator   = errors.New("engine: unknown integrator")
	ErrUnknownSystem       = errors.New("engine: unknown system")
	ErrNoActiveSystem      = errors.New("engine: no active system")
	ErrInvalidDistance     = errors.New("engine: orbit distance must be positive")
	ErrInvalidEccentricity = errors.New("engine: eccentricity must be in [0, 1)")
	ErrMissingBody         = errors.New("engine: body is nil")
	ErrInvalidParameter    = errors.New("engine: parameter out of range")
)

// RunError reports where a Run loop stopped.
type RunError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("engine: stopped at tick %d (t=%.0fs): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}

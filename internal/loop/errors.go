package loop

import (
	"errors"
	"fmt"
)

// Domain errors for a simulation run.
var (
	// ErrInvalidObservation indicates a NaN or infinite glucose value was
	// handed to a controller.
	ErrInvalidObservation = errors.New("loop: invalid observation (NaN or Inf)")

	// ErrInvalidDisturbance indicates a negative or NaN meal value.
	ErrInvalidDisturbance = errors.New("loop: invalid disturbance (negative or NaN)")

	// ErrEmptyResult indicates zero steps were recorded, so summary
	// statistics are undefined. Raised for a zero step budget or an
	// environment that terminates on reset.
	ErrEmptyResult = errors.New("loop: empty result (no steps recorded)")
)

// RunError wraps a controller or environment failure with step context.
type RunError struct {
	Step    int
	Op      string // "reset", "decide" or "step"
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("loop: %s failed at step %d: %v", e.Op, e.Step, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}

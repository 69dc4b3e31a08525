package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig wraps every configuration problem found before stepping.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrInvalidState indicates a generation with NaN or Inf components,
	// usually two bodies that met at the same position.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrFinished is returned by Session.Step after the last iteration.
	ErrFinished = errors.New("sim: run already finished")
)

// SimulationError wraps an error with the iteration it happened in.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a system that cannot be sampled, such as one
	// with no particles, or a simulator used outside its lifecycle.
	ErrInvalidState = errors.New("dynamo: invalid state")

	// ErrEngineFailure indicates the lattice, potential or integrator failed.
	ErrEngineFailure = errors.New("dynamo: engine failure")

	// ErrIO indicates a checkpoint or report could not be written.
	ErrIO = errors.New("dynamo: i/o failure")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the step at which the run aborted.
type SimulationError struct {
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

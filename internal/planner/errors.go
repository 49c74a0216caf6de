package planner

import (
	"errors"
	"fmt"
)

// ErrSolverUnavailable marks a failure of the external solver backend itself,
// as opposed to a proven-infeasible model, which is a regular result state.
var ErrSolverUnavailable = errors.New("milp solver unavailable")

// ValidationError rejects caller-supplied input before any model work begins.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %v %v: %v", err.Field, err.Value, err.Reason)
}

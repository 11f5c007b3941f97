package scoring

import (
	"errors"
	"fmt"
)

// Domain errors for belief scoring.
var (
	// ErrInvalidCategory indicates an unrecognized scoring mode.
	ErrInvalidCategory = errors.New("invalid scoring category")

	// ErrEmptySet indicates a ratio over an empty set was requested.
	ErrEmptySet = errors.New("empty set in ratio")

	// ErrEmptyTrueState indicates the true state at a comparison point is empty.
	ErrEmptyTrueState = fmt.Errorf("%w: true state is empty", ErrEmptySet)

	// ErrEmptyClaim indicates the claimed fluent set is empty.
	ErrEmptyClaim = fmt.Errorf("%w: claimed set is empty", ErrEmptySet)

	// ErrNoComparisonPoints indicates the mode selects no time steps for the inputs.
	ErrNoComparisonPoints = errors.New("no comparison points")
)

// ScoreError reports a failed scoring call with the mode and step that failed.
type ScoreError struct {
	Mode Mode
	// Step is the comparison point index, or the plan index for simulation failures.
	Step int
	Err  error
}

// Error implements the error interface.
func (e *ScoreError) Error() string {
	return fmt.Sprintf("score %s at step %d: %v", e.Mode, e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScoreError) Unwrap() error {
	return e.Err
}

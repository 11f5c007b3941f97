package transition

import "fmt"

// StepError reports a failure while simulating one action of a sequence.
type StepError struct {
	// Index is the 0-based position of the action in the sequence.
	Index int
	// Action is the action text as given.
	Action string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

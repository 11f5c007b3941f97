// Package episode models a single interrupted-dialogue evaluation episode.
package episode

import (
	"errors"
	"time"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
)

// Phase is a lifecycle phase of an episode.
type Phase string

// Lifecycle phases.
const (
	PhaseExecuting   Phase = "executing"
	PhaseInterrupted Phase = "interrupted"
	PhaseAnswered    Phase = "answered"
	PhaseScored      Phase = "scored"
	PhaseCompleted   Phase = "completed"
	PhaseFailed      Phase = "failed"
)

// IsTerminal reports whether no further transitions leave the phase.
func (p Phase) IsTerminal() bool {
	return p == PhaseScored || p == PhaseCompleted || p == PhaseFailed
}

// ErrInvalidTransition indicates a lifecycle event was not accepted.
var ErrInvalidTransition = errors.New("invalid episode transition")

// Episode is one sampled walk over a ground-truth plan.
type Episode struct {
	ID string `json:"id"`
	// PlanSoFar holds the ground-truth actions executed before the interruption.
	PlanSoFar []string `json:"plan_so_far"`
	// Transcript holds PlanSoFar rendered as numbered dialogue lines.
	Transcript  []string `json:"transcript"`
	Interrupted bool     `json:"interrupted"`
	Question    string   `json:"question,omitempty"`
}

// Steps returns the number of executed actions.
func (e *Episode) Steps() int {
	return len(e.PlanSoFar)
}

// Transition records a lifecycle change.
type Transition struct {
	From   Phase     `json:"from"`
	To     Phase     `json:"to"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// Report is the outcome of running an episode.
type Report struct {
	Episode *Episode                        `json:"episode"`
	Phase   Phase                           `json:"phase"`
	Claimed fluent.State                    `json:"claimed,omitempty"`
	Results map[scoring.Mode]*scoring.Result `json:"results,omitempty"`
	History []Transition                    `json:"history"`
	Error   string                          `json:"error,omitempty"`
}

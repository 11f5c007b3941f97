// Package statemachine provides the statekit integration for the episode lifecycle.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/belief-eval/domain/episode"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// Context carries episode state through the state machine.
type Context struct {
	Episode *episode.Episode
	Phase   episode.Phase
	Claimed fluent.State
	History []episode.Transition
}

// NewContext creates a new machine context for ep.
func NewContext(ep *episode.Episode) *Context {
	return &Context{
		Episode: ep,
		Phase:   episode.PhaseExecuting,
	}
}

// State IDs as StateID type for statekit.
const (
	stateExecuting   statekit.StateID = statekit.StateID(episode.PhaseExecuting)
	stateInterrupted statekit.StateID = statekit.StateID(episode.PhaseInterrupted)
	stateAnswered    statekit.StateID = statekit.StateID(episode.PhaseAnswered)
	stateScored      statekit.StateID = statekit.StateID(episode.PhaseScored)
	stateCompleted   statekit.StateID = statekit.StateID(episode.PhaseCompleted)
	stateFailed      statekit.StateID = statekit.StateID(episode.PhaseFailed)
)

// Lifecycle events.
const (
	EventInterrupt statekit.EventType = "INTERRUPT"
	EventComplete  statekit.EventType = "COMPLETE"
	EventAnswer    statekit.EventType = "ANSWER"
	EventScore     statekit.EventType = "SCORE"
	EventFail      statekit.EventType = "FAIL"
)

// NewEpisodeMachine creates the episode lifecycle statechart.
//
//	executing --INTERRUPT--> interrupted --ANSWER--> answered --SCORE--> scored
//	executing --COMPLETE--> completed
//	any non-final --FAIL--> failed
func NewEpisodeMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("episode").
		WithInitial(stateExecuting).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("wasInterrupted", guardWasInterrupted).
		WithGuard("notInterrupted", guardNotInterrupted).
		WithGuard("hasClaim", guardHasClaim).
		State(stateExecuting).
			On(EventInterrupt).Target(stateInterrupted).Guard("wasInterrupted").Do("recordTransition").
			On(EventComplete).Target(stateCompleted).Guard("notInterrupted").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateInterrupted).
			On(EventAnswer).Target(stateAnswered).Guard("hasClaim").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateAnswered).
			On(EventScore).Target(stateScored).Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateScored).
			Final().
			Done().
		State(stateCompleted).
			Final().
			Done().
		State(stateFailed).
			Final().
			Done().
		Build()
}

// transitions lists the events each phase accepts, mirroring the chart.
var transitions = map[episode.Phase][]statekit.EventType{
	episode.PhaseExecuting:   {EventInterrupt, EventComplete, EventFail},
	episode.PhaseInterrupted: {EventAnswer, EventFail},
	episode.PhaseAnswered:    {EventScore, EventFail},
}

// PhaseForEvent returns the phase an event leads to.
func PhaseForEvent(event statekit.EventType) episode.Phase {
	switch event {
	case EventInterrupt:
		return episode.PhaseInterrupted
	case EventComplete:
		return episode.PhaseCompleted
	case EventAnswer:
		return episode.PhaseAnswered
	case EventScore:
		return episode.PhaseScored
	case EventFail:
		return episode.PhaseFailed
	default:
		return episode.Phase(event)
	}
}

package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/belief-eval/domain/episode"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// Interpreter wraps the statekit interpreter for one episode.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter bound to ctx.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start enters the initial state.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Phase = episode.Phase(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the current phase.
func (i *Interpreter) Phase() episode.Phase {
	return episode.Phase(i.interp.State().Value)
}

// CanFire reports whether the current phase has a transition for event.
// Guards are not evaluated.
func (i *Interpreter) CanFire(event statekit.EventType) bool {
	for _, e := range transitions[i.Phase()] {
		if e == event {
			return true
		}
	}
	return false
}

// Fire sends event and returns ErrInvalidTransition when the current phase
// has no such transition or a guard rejected it.
func (i *Interpreter) Fire(event statekit.EventType, reason string) error {
	from := i.Phase()
	if !i.CanFire(event) {
		return fmt.Errorf("%w: %s from %s", episode.ErrInvalidTransition, event, from)
	}
	i.interp.Send(statekit.Event{
		Type:    event,
		Payload: TransitionPayload{Reason: reason},
	})
	if to := i.Phase(); to == from {
		return fmt.Errorf("%w: %s from %s", episode.ErrInvalidTransition, event, from)
	}
	return nil
}

// Answer records the claimed belief and moves to answered.
func (i *Interpreter) Answer(claimed fluent.State) error {
	if claimed == nil {
		claimed = fluent.NewState()
	}
	i.ctx.Claimed = claimed
	return i.Fire(EventAnswer, "belief received")
}

// IsTerminal returns true if the interpreter is in a final state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Matches checks if the current phase matches p.
func (i *Interpreter) Matches(p episode.Phase) bool {
	return i.interp.Matches(statekit.StateID(p))
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

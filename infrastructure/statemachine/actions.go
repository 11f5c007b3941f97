package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/belief-eval/domain/episode"
)

// TransitionPayload carries additional data with a lifecycle event.
type TransitionPayload struct {
	Reason string
}

// recordTransition appends the transition to the context history.
// Actions receive a pointer to the *Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}

	c := *ctx
	var reason string
	if payload, ok := event.Payload.(TransitionPayload); ok {
		reason = payload.Reason
	}

	to := PhaseForEvent(event.Type)
	c.History = append(c.History, episode.Transition{
		From:   c.Phase,
		To:     to,
		Reason: reason,
		At:     time.Now(),
	})
	c.Phase = to
}

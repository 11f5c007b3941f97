package statemachine

import "github.com/felixgeelhaar/statekit"

// Guards receive the *Context by value.

func guardWasInterrupted(ctx *Context, _ statekit.Event) bool {
	return ctx != nil && ctx.Episode != nil && ctx.Episode.Interrupted
}

func guardNotInterrupted(ctx *Context, _ statekit.Event) bool {
	return ctx != nil && ctx.Episode != nil && !ctx.Episode.Interrupted
}

// guardHasClaim requires the belief source answer to be recorded first.
func guardHasClaim(ctx *Context, _ statekit.Event) bool {
	return ctx != nil && ctx.Claimed != nil
}

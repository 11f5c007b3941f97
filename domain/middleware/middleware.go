// Package middleware provides composable middleware for belief queries.
package middleware

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// Domain errors for belief query middleware.
var (
	// ErrRateLimitExceeded indicates a belief query was rejected by a rate limiter.
	ErrRateLimitExceeded = errors.New("belief query rate limit exceeded")

	// ErrEmptyBelief indicates a belief source answered with no fluents.
	ErrEmptyBelief = errors.New("belief source returned an empty claim")

	// ErrBeliefTooLarge indicates a claim exceeds the configured fluent limit.
	ErrBeliefTooLarge = errors.New("belief claim exceeds fluent limit")
)

// Request contains everything middleware needs to know about one belief query.
type Request struct {
	// EpisodeID identifies the episode that was interrupted.
	EpisodeID string
	// Source is the name of the belief source being queried.
	Source string
	// Question is the question put to the agent.
	Question string
	// Transcript is the numbered dialogue shown to the agent.
	Transcript []string
	// PlanSoFar holds the actions executed before the interruption.
	PlanSoFar []string
}

// Handler answers a belief query with a claimed fluent set.
type Handler func(ctx context.Context, req *Request) (fluent.State, error)

// Middleware wraps a Handler with additional behavior.
// Middleware can:
// - Execute code before the next handler
// - Execute code after the next handler
// - Short-circuit by not calling next
// - Transform the claim or the error
type Middleware func(next Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Middleware are executed in the order provided, with each wrapping the next.
// For example, Chain(A, B, C) produces: A -> B -> C -> handler
func Chain(middlewares ...Middleware) Middleware {
	return func(final Handler) Handler {
		handler := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Noop returns a middleware that does nothing, just passes through.
func Noop() Middleware {
	return func(next Handler) Handler {
		return next
	}
}

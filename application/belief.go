package application

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/middleware"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/transition"
	"github.com/felixgeelhaar/belief-eval/infrastructure/resilience"
	"github.com/felixgeelhaar/belief-eval/infrastructure/telemetry"
)

// Query is what an interrupted agent is asked.
type Query struct {
	EpisodeID string
	Question  string
	// Transcript is the numbered dialogue so far.
	Transcript []string
	// PlanSoFar holds the raw actions behind Transcript.
	PlanSoFar []string
}

// BeliefSource answers a query with the agent's claimed world state.
type BeliefSource interface {
	Believe(ctx context.Context, q Query) (fluent.State, error)
}

// BeliefSourceFunc adapts a function to BeliefSource.
type BeliefSourceFunc func(ctx context.Context, q Query) (fluent.State, error)

// Believe implements BeliefSource.
func (f BeliefSourceFunc) Believe(ctx context.Context, q Query) (fluent.State, error) {
	return f(ctx, q)
}

// StaticBelief always claims the same fluent set.
type StaticBelief struct {
	claimed fluent.State
}

// NewStaticBelief creates a source claiming a copy of claimed.
func NewStaticBelief(claimed fluent.State) *StaticBelief {
	return &StaticBelief{claimed: claimed.Clone()}
}

// Believe implements BeliefSource.
func (s *StaticBelief) Believe(ctx context.Context, _ Query) (fluent.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.claimed.Clone(), nil
}

// OracleBelief claims the true current state. It is the upper-bound
// baseline: current mode always scores 1.
type OracleBelief struct {
	engine      *transition.Engine
	groundTruth plan.Plan
}

// NewOracleBelief creates an oracle over the engine and ground-truth plan.
func NewOracleBelief(engine *transition.Engine, groundTruth plan.Plan) *OracleBelief {
	return &OracleBelief{engine: engine, groundTruth: groundTruth}
}

// Believe implements BeliefSource.
func (o *OracleBelief) Believe(ctx context.Context, q Query) (fluent.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return o.engine.SimulateFromInit(q.PlanSoFar, o.groundTruth)
}

// ResilientBelief guards a belief source with timeout, retry, circuit
// breaker and bulkhead policies and records query metrics.
type ResilientBelief struct {
	name     string
	source   BeliefSource
	executor *resilience.Executor[fluent.State]
	metrics  telemetry.Metrics
}

// NewResilientBelief wraps source. A nil metrics records nothing.
func NewResilientBelief(name string, source BeliefSource, executor *resilience.Executor[fluent.State], metrics telemetry.Metrics) *ResilientBelief {
	if metrics == nil {
		metrics = &telemetry.NoopMetricsProvider{}
	}
	return &ResilientBelief{
		name:     name,
		source:   source,
		executor: executor,
		metrics:  metrics,
	}
}

// Believe implements BeliefSource.
func (r *ResilientBelief) Believe(ctx context.Context, q Query) (fluent.State, error) {
	start := time.Now()
	claimed, err := r.executor.Execute(ctx, func(ctx context.Context) (fluent.State, error) {
		return r.source.Believe(ctx, q)
	})
	r.metrics.RecordQuery(ctx, r.name, err == nil, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("belief source %s: %w", r.name, err)
	}
	return claimed, nil
}

// ChainedBelief runs belief queries through a middleware chain before
// they reach the wrapped source.
type ChainedBelief struct {
	name    string
	handler middleware.Handler
}

// NewChainedBelief wraps source with middlewares, outermost first.
func NewChainedBelief(name string, source BeliefSource, middlewares ...middleware.Middleware) *ChainedBelief {
	final := func(ctx context.Context, req *middleware.Request) (fluent.State, error) {
		return source.Believe(ctx, Query{
			EpisodeID:  req.EpisodeID,
			Question:   req.Question,
			Transcript: req.Transcript,
			PlanSoFar:  req.PlanSoFar,
		})
	}
	return &ChainedBelief{
		name:    name,
		handler: middleware.Chain(middlewares...)(final),
	}
}

// Believe implements BeliefSource.
func (c *ChainedBelief) Believe(ctx context.Context, q Query) (fluent.State, error) {
	return c.handler(ctx, &middleware.Request{
		EpisodeID:  q.EpisodeID,
		Source:     c.name,
		Question:   q.Question,
		Transcript: q.Transcript,
		PlanSoFar:  q.PlanSoFar,
	})
}

var (
	_ BeliefSource = BeliefSourceFunc(nil)
	_ BeliefSource = (*StaticBelief)(nil)
	_ BeliefSource = (*OracleBelief)(nil)
	_ BeliefSource = (*ResilientBelief)(nil)
	_ BeliefSource = (*ChainedBelief)(nil)
)

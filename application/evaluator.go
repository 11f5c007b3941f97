// Package application orchestrates belief evaluation: scoring claims,
// sampling interrupted episodes and running them in batches.
package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
	"github.com/felixgeelhaar/belief-eval/infrastructure/logging"
	"github.com/felixgeelhaar/belief-eval/infrastructure/telemetry"
)

const tracerName = "github.com/felixgeelhaar/belief-eval/application"

// Evaluator scores claimed beliefs with logging, metrics and tracing.
type Evaluator struct {
	scorer  *scoring.Scorer
	metrics telemetry.Metrics
	tracer  trace.Tracer
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) EvaluatorOption {
	return func(e *Evaluator) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) EvaluatorOption {
	return func(e *Evaluator) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEvaluator creates an evaluator over scorer. By default it records no
// metrics and traces through the global tracer provider.
func NewEvaluator(scorer *scoring.Scorer, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		scorer:  scorer,
		metrics: &telemetry.NoopMetricsProvider{},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the underlying scorer.
func (e *Evaluator) Scorer() *scoring.Scorer {
	return e.scorer
}

// Metrics returns the metrics recorder.
func (e *Evaluator) Metrics() telemetry.Metrics {
	return e.metrics
}

// Score scores claimed against the plan so far in one mode.
func (e *Evaluator) Score(ctx context.Context, planSoFar []string, groundTruth plan.Plan, claimed fluent.State, mode scoring.Mode) (*scoring.Result, error) {
	ctx, span := e.tracer.Start(ctx, "belief.score", trace.WithAttributes(
		attribute.String("score.mode", mode.String()),
		attribute.Int("plan.steps", len(planSoFar)),
		attribute.Int("belief.claimed", claimed.Len()),
	))
	defer span.End()

	start := time.Now()
	result, err := e.scorer.Score(planSoFar, groundTruth, claimed, mode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.metrics.RecordScore(ctx, mode.String(), false, 0, 0)

		logging.Warn().
			Add(logging.Component("evaluator")).
			Add(logging.Mode(mode.String())).
			Add(logging.Steps(len(planSoFar))).
			Add(logging.ErrorField(err)).
			Msg("scoring failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("score.gamma", result.Gamma),
		attribute.Float64("score.soundness", result.Soundness),
		attribute.Int("score.points", result.Points()),
	)
	e.metrics.RecordScore(ctx, mode.String(), true, result.Gamma, result.Soundness)
	e.metrics.RecordSimulationSteps(ctx, len(planSoFar))

	logging.Debug().
		Add(logging.Component("evaluator")).
		Add(logging.Mode(mode.String())).
		Add(logging.Steps(len(planSoFar))).
		Add(logging.Points(result.Points())).
		Add(logging.Gamma(result.Gamma)).
		Add(logging.Soundness(result.Soundness)).
		Add(logging.Duration(time.Since(start))).
		Msg("belief scored")

	return result, nil
}

// ScoreModes scores one claim in each mode. Modes with no comparison point
// at this position (past at step zero, future at the end of the plan) are
// omitted from the result map; any other failure aborts.
func (e *Evaluator) ScoreModes(ctx context.Context, planSoFar []string, groundTruth plan.Plan, claimed fluent.State, modes []scoring.Mode) (map[scoring.Mode]*scoring.Result, error) {
	results := make(map[scoring.Mode]*scoring.Result, len(modes))
	for _, mode := range modes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := e.Score(ctx, planSoFar, groundTruth, claimed, mode)
		if errors.Is(err, scoring.ErrNoComparisonPoints) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results[mode] = result
	}
	return results, nil
}

// Package telemetry provides OpenTelemetry metrics for belief evaluation.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	scoreCalls      metric.Int64Counter
	simulationSteps metric.Int64Counter
	episodes        metric.Int64Counter
	interruptions   metric.Int64Counter
	errors          metric.Int64Counter

	// Histograms
	gamma         metric.Float64Histogram
	soundness     metric.Float64Histogram
	queryDuration metric.Float64Histogram
	episodeDur    metric.Float64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeEpisodes     metric.Int64UpDownCounter
	circuitBreakerOpen metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/belief-eval").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/belief-eval",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider on the global meter provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&mp.scoreCalls, "belief.score.calls", "Number of belief scoring calls", "{call}"},
		{&mp.simulationSteps, "belief.simulation.steps", "Number of actions applied by the transition engine", "{step}"},
		{&mp.episodes, "belief.episodes", "Number of finished episodes", "{episode}"},
		{&mp.interruptions, "belief.interruptions", "Number of sampled interruptions", "{interruption}"},
		{&mp.errors, "belief.errors", "Number of errors", "{error}"},
	}
	for _, c := range counters {
		*c.dst, err = mp.meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return err
		}
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
		unit string
	}{
		{&mp.gamma, "belief.score.gamma", "Mean recall of claimed beliefs", "1"},
		{&mp.soundness, "belief.score.soundness", "Mean precision of claimed beliefs", "1"},
		{&mp.queryDuration, "belief.query.duration", "Duration of belief source queries", "ms"},
		{&mp.episodeDur, "belief.episode.duration", "Duration of episodes", "ms"},
	}
	for _, h := range histograms {
		*h.dst, err = mp.meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit(h.unit))
		if err != nil {
			return err
		}
	}

	mp.activeEpisodes, err = mp.meter.Int64UpDownCounter(
		"belief.episodes.active",
		metric.WithDescription("Number of episodes in flight"),
		metric.WithUnit("{episode}"),
	)
	if err != nil {
		return err
	}

	mp.circuitBreakerOpen, err = mp.meter.Int64UpDownCounter(
		"belief.circuitbreaker.open",
		metric.WithDescription("Number of open belief source circuit breakers"),
		metric.WithUnit("{breaker}"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordScore records a scoring call and, on success, its gamma and soundness.
func (mp *MetricsProvider) RecordScore(ctx context.Context, mode string, success bool, gamma, soundness float64) {
	attrs := metric.WithAttributes(
		attribute.String("score.mode", mode),
		attribute.Bool("success", success),
	)
	mp.scoreCalls.Add(ctx, 1, attrs)
	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.type", "score")))
		return
	}

	modeAttr := metric.WithAttributes(attribute.String("score.mode", mode))
	mp.gamma.Record(ctx, gamma, modeAttr)
	mp.soundness.Record(ctx, soundness, modeAttr)
}

// RecordSimulationSteps records actions applied by the transition engine.
func (mp *MetricsProvider) RecordSimulationSteps(ctx context.Context, steps int) {
	mp.simulationSteps.Add(ctx, int64(steps))
}

// RecordInterruption records a sampled interruption at the given step.
func (mp *MetricsProvider) RecordInterruption(ctx context.Context, step int) {
	mp.interruptions.Add(ctx, 1, metric.WithAttributes(attribute.Int("episode.step", step)))
}

// RecordQuery records a belief source query.
func (mp *MetricsProvider) RecordQuery(ctx context.Context, source string, success bool, duration time.Duration) {
	mp.queryDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("belief.source", source),
		attribute.Bool("success", success),
	))
	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "query"),
			attribute.String("belief.source", source),
		))
	}
}

// RecordEpisode records a finished episode.
func (mp *MetricsProvider) RecordEpisode(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("episode.outcome", outcome))
	mp.episodes.Add(ctx, 1, attrs)
	mp.episodeDur.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}
	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// IncrementActiveEpisodes increments the in-flight episode gauge.
func (mp *MetricsProvider) IncrementActiveEpisodes(ctx context.Context) {
	mp.activeEpisodes.Add(ctx, 1)
}

// DecrementActiveEpisodes decrements the in-flight episode gauge.
func (mp *MetricsProvider) DecrementActiveEpisodes(ctx context.Context) {
	mp.activeEpisodes.Add(ctx, -1)
}

// RecordCircuitBreakerStateChange records a belief source circuit breaker state change.
func (mp *MetricsProvider) RecordCircuitBreakerStateChange(ctx context.Context, source string, isOpen bool) {
	attrs := metric.WithAttributes(attribute.String("belief.source", source))
	if isOpen {
		mp.circuitBreakerOpen.Add(ctx, 1, attrs)
	} else {
		mp.circuitBreakerOpen.Add(ctx, -1, attrs)
	}
}

// NoopMetricsProvider is a no-op metrics provider for testing or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordScore is a no-op.
func (n *NoopMetricsProvider) RecordScore(context.Context, string, bool, float64, float64) {}

// RecordSimulationSteps is a no-op.
func (n *NoopMetricsProvider) RecordSimulationSteps(context.Context, int) {}

// RecordInterruption is a no-op.
func (n *NoopMetricsProvider) RecordInterruption(context.Context, int) {}

// RecordQuery is a no-op.
func (n *NoopMetricsProvider) RecordQuery(context.Context, string, bool, time.Duration) {}

// RecordEpisode is a no-op.
func (n *NoopMetricsProvider) RecordEpisode(context.Context, string, time.Duration) {}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(context.Context, string, map[string]string) {}

// IncrementActiveEpisodes is a no-op.
func (n *NoopMetricsProvider) IncrementActiveEpisodes(context.Context) {}

// DecrementActiveEpisodes is a no-op.
func (n *NoopMetricsProvider) DecrementActiveEpisodes(context.Context) {}

// RecordCircuitBreakerStateChange is a no-op.
func (n *NoopMetricsProvider) RecordCircuitBreakerStateChange(context.Context, string, bool) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordScore(ctx context.Context, mode string, success bool, gamma, soundness float64)
	RecordSimulationSteps(ctx context.Context, steps int)
	RecordInterruption(ctx context.Context, step int)
	RecordQuery(ctx context.Context, source string, success bool, duration time.Duration)
	RecordEpisode(ctx context.Context, outcome string, duration time.Duration)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	IncrementActiveEpisodes(ctx context.Context)
	DecrementActiveEpisodes(ctx context.Context)
	RecordCircuitBreakerStateChange(ctx context.Context, source string, isOpen bool)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)

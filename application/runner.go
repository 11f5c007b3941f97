package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/belief-eval/domain/episode"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
	"github.com/felixgeelhaar/belief-eval/infrastructure/logging"
	"github.com/felixgeelhaar/belief-eval/infrastructure/statemachine"
)

// DefaultConcurrency is the default number of episodes run in parallel.
const DefaultConcurrency = 4

// Runner samples episodes, queries the belief source on interruption and
// scores the answer.
type Runner struct {
	groundTruth plan.Plan
	sampler     *Sampler
	source      BeliefSource
	evaluator   *Evaluator
	modes       []scoring.Mode
	concurrency int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithModes sets the scoring modes. The default is every mode.
func WithModes(modes ...scoring.Mode) RunnerOption {
	return func(r *Runner) {
		if len(modes) > 0 {
			r.modes = modes
		}
	}
}

// WithConcurrency sets the batch parallelism.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a runner over the ground-truth plan.
func NewRunner(groundTruth plan.Plan, sampler *Sampler, source BeliefSource, evaluator *Evaluator, opts ...RunnerOption) *Runner {
	r := &Runner{
		groundTruth: groundTruth,
		sampler:     sampler,
		source:      source,
		evaluator:   evaluator,
		modes:       scoring.Modes(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Modes returns the configured scoring modes.
func (r *Runner) Modes() []scoring.Mode {
	return append([]scoring.Mode(nil), r.modes...)
}

// RunEpisode samples and runs one episode. The report is always returned;
// a non-nil error means the episode ended in the failed phase.
func (r *Runner) RunEpisode(ctx context.Context) (*episode.Report, error) {
	return r.runEpisode(ctx, r.sampler.Sample(r.groundTruth))
}

func (r *Runner) runEpisode(ctx context.Context, ep *episode.Episode) (*episode.Report, error) {
	metrics := r.evaluator.Metrics()

	ctx, span := r.evaluator.tracer.Start(ctx, "belief.episode", trace.WithAttributes(
		attribute.String("episode.id", ep.ID),
		attribute.Int("episode.steps", ep.Steps()),
		attribute.Bool("episode.interrupted", ep.Interrupted),
	))
	defer span.End()

	metrics.IncrementActiveEpisodes(ctx)
	defer metrics.DecrementActiveEpisodes(ctx)
	start := time.Now()

	machine, err := statemachine.NewEpisodeMachine()
	if err != nil {
		return &episode.Report{Episode: ep, Phase: episode.PhaseFailed, Error: err.Error()}, err
	}
	mctx := statemachine.NewContext(ep)
	interp := statemachine.NewInterpreter(machine, mctx)
	interp.Start()
	defer interp.Stop()

	report := &episode.Report{Episode: ep}
	finish := func(runErr error) (*episode.Report, error) {
		if runErr != nil {
			if !interp.IsTerminal() {
				_ = interp.Fire(statemachine.EventFail, runErr.Error())
			}
			report.Error = runErr.Error()
			span.RecordError(runErr)
			span.SetStatus(codes.Error, runErr.Error())
			metrics.RecordError(ctx, "episode", map[string]string{"episode.id": ep.ID})
		}
		report.Phase = interp.Phase()
		report.Claimed = mctx.Claimed
		report.History = mctx.History
		metrics.RecordEpisode(ctx, string(report.Phase), time.Since(start))

		var event *logging.LogEvent
		if runErr != nil {
			event = logging.Error().Add(logging.ErrorField(runErr))
		} else {
			event = logging.Info()
		}
		event.
			Add(logging.EpisodeID(ep.ID)).
			Add(logging.Phase(string(report.Phase))).
			Add(logging.Steps(ep.Steps())).
			Add(logging.Interrupted(ep.Interrupted)).
			Add(logging.Duration(time.Since(start))).
			Msg("episode finished")
		return report, runErr
	}

	if !ep.Interrupted {
		return finish(interp.Fire(statemachine.EventComplete, "plan finished without interruption"))
	}

	metrics.RecordInterruption(ctx, ep.Steps())
	if err := interp.Fire(statemachine.EventInterrupt, ep.Question); err != nil {
		return finish(err)
	}

	claimed, err := r.source.Believe(ctx, Query{
		EpisodeID:  ep.ID,
		Question:   ep.Question,
		Transcript: ep.Transcript,
		PlanSoFar:  ep.PlanSoFar,
	})
	if err != nil {
		return finish(err)
	}
	if err := interp.Answer(claimed); err != nil {
		return finish(err)
	}

	results, err := r.evaluator.ScoreModes(ctx, ep.PlanSoFar, r.groundTruth, claimed, r.modes)
	if err != nil {
		return finish(err)
	}
	report.Results = results
	return finish(interp.Fire(statemachine.EventScore, "belief scored"))
}

// BatchReport is the outcome of a batch run.
type BatchReport struct {
	Reports []*episode.Report `json:"reports"`
	Summary Summary           `json:"summary"`
}

// RunBatch runs n independent episodes with bounded parallelism. Failed
// episodes are reported, not returned; only cancellation aborts the batch.
// Episodes are sampled in index order before any runs, so a seeded sampler
// yields the same Reports[i] regardless of concurrency.
func (r *Runner) RunBatch(ctx context.Context, n int) (*BatchReport, error) {
	episodes := make([]*episode.Episode, n)
	for i := range episodes {
		episodes[i] = r.sampler.Sample(r.groundTruth)
	}
	reports := make([]*episode.Report, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := r.runEpisode(gctx, episodes[i])
			reports[i] = report
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BatchReport{
		Reports: reports,
		Summary: Summarize(reports),
	}, nil
}

// ModeSummary aggregates one scoring mode over scored episodes.
type ModeSummary struct {
	Episodes      int     `json:"episodes"`
	MeanGamma     float64 `json:"mean_gamma"`
	MeanSoundness float64 `json:"mean_soundness"`
}

// Summary aggregates a batch.
type Summary struct {
	Episodes  int                          `json:"episodes"`
	Scored    int                          `json:"scored"`
	Completed int                          `json:"completed"`
	Failed    int                          `json:"failed"`
	Modes     map[scoring.Mode]ModeSummary `json:"modes"`
}

// Summarize computes per-phase counts and per-mode means.
func Summarize(reports []*episode.Report) Summary {
	s := Summary{Modes: map[scoring.Mode]ModeSummary{}}
	for _, report := range reports {
		if report == nil {
			continue
		}
		s.Episodes++
		switch report.Phase {
		case episode.PhaseScored:
			s.Scored++
		case episode.PhaseCompleted:
			s.Completed++
		case episode.PhaseFailed:
			s.Failed++
		}
		for mode, result := range report.Results {
			m := s.Modes[mode]
			m.Episodes++
			m.MeanGamma += result.Gamma
			m.MeanSoundness += result.Soundness
			s.Modes[mode] = m
		}
	}
	for mode, m := range s.Modes {
		m.MeanGamma /= float64(m.Episodes)
		m.MeanSoundness /= float64(m.Episodes)
		s.Modes[mode] = m
	}
	return s
}

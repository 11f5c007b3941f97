package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/belief-eval/application"
	"github.com/felixgeelhaar/belief-eval/domain/episode"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
)

func newRunner(t *testing.T, rng application.RandomSource, source func(*application.Evaluator) application.BeliefSource, opts ...application.RunnerOption) (*application.Runner, *recordingMetrics) {
	t.Helper()

	metrics := newRecordingMetrics()
	evaluator := application.NewEvaluator(grapeScorer(t), application.WithMetrics(metrics))
	sampler := application.NewSampler("What holds now?", 0.25, application.WithRandomSource(rng))
	return application.NewRunner(groundTruth, sampler, source(evaluator), evaluator, opts...), metrics
}

func oracle(e *application.Evaluator) application.BeliefSource {
	return application.NewOracleBelief(e.Scorer().Engine(), groundTruth)
}

func TestRunner_RunEpisode_Scored(t *testing.T) {
	t.Parallel()

	// Interrupted after the second action.
	runner, metrics := newRunner(t, &sequence{draws: []float64{0.9, 0.1}}, oracle)

	report, err := runner.RunEpisode(context.Background())
	if err != nil {
		t.Fatalf("RunEpisode() error = %v", err)
	}
	if report.Phase != episode.PhaseScored {
		t.Fatalf("Phase = %s, want scored", report.Phase)
	}
	if report.Episode.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2", report.Episode.Steps())
	}
	if len(report.Results) != 3 {
		t.Fatalf("Results has %d modes, want 3", len(report.Results))
	}
	if got := report.Results[scoring.ModeCurrent]; got.Gamma != 1 || got.Soundness != 1 {
		t.Errorf("current = %v/%v, oracle should score 1/1", got.Gamma, got.Soundness)
	}
	if report.Claimed == nil || !report.Claimed.Has("unknown g1") {
		t.Error("report should carry the oracle claim")
	}

	wantPhases := []episode.Phase{episode.PhaseInterrupted, episode.PhaseAnswered, episode.PhaseScored}
	if len(report.History) != len(wantPhases) {
		t.Fatalf("History has %d entries, want %d", len(report.History), len(wantPhases))
	}
	for i, tr := range report.History {
		if tr.To != wantPhases[i] {
			t.Errorf("History[%d].To = %s, want %s", i, tr.To, wantPhases[i])
		}
	}

	if metrics.interruptions != 1 || metrics.episodes["scored"] != 1 || metrics.active != 0 {
		t.Errorf("metrics = interruptions %d, episodes %v, active %d", metrics.interruptions, metrics.episodes, metrics.active)
	}
}

func TestRunner_RunEpisode_Completed(t *testing.T) {
	t.Parallel()

	runner, _ := newRunner(t, &sequence{draws: []float64{0.99}}, oracle)

	report, err := runner.RunEpisode(context.Background())
	if err != nil {
		t.Fatalf("RunEpisode() error = %v", err)
	}
	if report.Phase != episode.PhaseCompleted {
		t.Errorf("Phase = %s, want completed", report.Phase)
	}
	if len(report.Results) != 0 || report.Claimed != nil {
		t.Error("completed episode should not be scored")
	}
}

func TestRunner_RunEpisode_SourceFailure(t *testing.T) {
	t.Parallel()

	failing := func(*application.Evaluator) application.BeliefSource {
		return application.BeliefSourceFunc(func(context.Context, application.Query) (fluent.State, error) {
			return nil, errors.New("agent unavailable")
		})
	}
	runner, metrics := newRunner(t, &sequence{draws: []float64{0.1}}, failing)

	report, err := runner.RunEpisode(context.Background())
	if err == nil {
		t.Fatal("RunEpisode() expected error")
	}
	if report.Phase != episode.PhaseFailed {
		t.Errorf("Phase = %s, want failed", report.Phase)
	}
	if report.Error != "agent unavailable" {
		t.Errorf("Error = %q", report.Error)
	}
	last := report.History[len(report.History)-1]
	if last.From != episode.PhaseInterrupted || last.To != episode.PhaseFailed {
		t.Errorf("last transition = %+v", last)
	}
	if metrics.episodes["failed"] != 1 || metrics.errors != 1 {
		t.Errorf("metrics = episodes %v, errors %d", metrics.episodes, metrics.errors)
	}
}

func TestRunner_RunEpisode_ScoreFailure(t *testing.T) {
	t.Parallel()

	empty := func(*application.Evaluator) application.BeliefSource {
		return application.NewStaticBelief(fluent.NewState())
	}
	runner, _ := newRunner(t, &sequence{draws: []float64{0.1}}, empty)

	report, err := runner.RunEpisode(context.Background())
	if !errors.Is(err, scoring.ErrEmptyClaim) {
		t.Fatalf("RunEpisode() error = %v, want ErrEmptyClaim", err)
	}
	if report.Phase != episode.PhaseFailed {
		t.Errorf("Phase = %s, want failed", report.Phase)
	}
}

func TestRunner_WithModes(t *testing.T) {
	t.Parallel()

	runner, _ := newRunner(t, &sequence{draws: []float64{0.1}}, oracle, application.WithModes(scoring.ModeCurrent))
	if got := runner.Modes(); len(got) != 1 || got[0] != scoring.ModeCurrent {
		t.Fatalf("Modes() = %v", got)
	}

	report, err := runner.RunEpisode(context.Background())
	if err != nil {
		t.Fatalf("RunEpisode() error = %v", err)
	}
	if len(report.Results) != 1 {
		t.Errorf("Results has %d modes, want 1", len(report.Results))
	}
}

func TestRunner_RunBatch(t *testing.T) {
	t.Parallel()

	// Alternates: interrupt at step one, then run to the end.
	runner, metrics := newRunner(t, &cycle{draws: []float64{0.1, 0.99, 0.99, 0.99, 0.99, 0.99, 0.99}}, oracle,
		application.WithConcurrency(3))

	batch, err := runner.RunBatch(context.Background(), 6)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if len(batch.Reports) != 6 {
		t.Fatalf("Reports = %d, want 6", len(batch.Reports))
	}

	s := batch.Summary
	if s.Episodes != 6 || s.Scored+s.Completed != 6 || s.Failed != 0 {
		t.Errorf("Summary = %+v", s)
	}
	if s.Scored > 0 {
		current := s.Modes[scoring.ModeCurrent]
		if current.Episodes != s.Scored || current.MeanGamma != 1 || current.MeanSoundness != 1 {
			t.Errorf("current summary = %+v", current)
		}
	}
	if metrics.active != 0 {
		t.Errorf("active episodes = %d, want 0", metrics.active)
	}
}

func TestRunner_RunBatch_IndexOrder(t *testing.T) {
	t.Parallel()

	// Even episodes are interrupted after one action, odd ones run to the end.
	runner, _ := newRunner(t, &cycle{draws: []float64{0.1, 0.99, 0.99, 0.99, 0.99, 0.99, 0.99}}, oracle,
		application.WithConcurrency(4))

	batch, err := runner.RunBatch(context.Background(), 8)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	for i, report := range batch.Reports {
		want := episode.PhaseScored
		if i%2 == 1 {
			want = episode.PhaseCompleted
		}
		if report.Phase != want {
			t.Errorf("Reports[%d].Phase = %s, want %s", i, report.Phase, want)
		}
	}
}

func TestRunner_RunBatch_SeededIsReproducible(t *testing.T) {
	t.Parallel()

	run := func() []int {
		evaluator := application.NewEvaluator(grapeScorer(t))
		sampler := application.NewSampler("What holds now?", 0.25, application.WithSeed(42))
		runner := application.NewRunner(groundTruth, sampler, oracle(evaluator), evaluator,
			application.WithConcurrency(8))

		batch, err := runner.RunBatch(context.Background(), 200)
		if err != nil {
			t.Fatalf("RunBatch() error = %v", err)
		}
		steps := make([]int, len(batch.Reports))
		for i, report := range batch.Reports {
			steps[i] = report.Episode.Steps()
		}
		return steps
	}

	first := run()
	for attempt := 0; attempt < 3; attempt++ {
		if diff := cmp.Diff(first, run()); diff != "" {
			t.Fatalf("seeded batch differs between runs (-first +again):\n%s", diff)
		}
	}
}

func TestRunner_RunBatch_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner, _ := newRunner(t, &sequence{draws: []float64{0.1}}, oracle)
	if _, err := runner.RunBatch(ctx, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("RunBatch() error = %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	reports := []*episode.Report{
		{Phase: episode.PhaseScored, Results: map[scoring.Mode]*scoring.Result{
			scoring.ModeCurrent: {Gamma: 1, Soundness: 0.5},
		}},
		{Phase: episode.PhaseScored, Results: map[scoring.Mode]*scoring.Result{
			scoring.ModeCurrent: {Gamma: 0.5, Soundness: 1},
			scoring.ModePast:    {Gamma: 0.25, Soundness: 0.75},
		}},
		{Phase: episode.PhaseCompleted},
		{Phase: episode.PhaseFailed},
		nil,
	}

	s := application.Summarize(reports)
	if s.Episodes != 4 || s.Scored != 2 || s.Completed != 1 || s.Failed != 1 {
		t.Errorf("counts = %+v", s)
	}
	want := map[scoring.Mode]application.ModeSummary{
		scoring.ModeCurrent: {Episodes: 2, MeanGamma: 0.75, MeanSoundness: 0.75},
		scoring.ModePast:    {Episodes: 1, MeanGamma: 0.25, MeanSoundness: 0.75},
	}
	for mode, w := range want {
		if got := s.Modes[mode]; got != w {
			t.Errorf("Modes[%s] = %+v, want %+v", mode, got, w)
		}
	}
	if _, ok := s.Modes[scoring.ModeFuture]; ok {
		t.Error("future should be absent")
	}
}

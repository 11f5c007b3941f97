package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/schema"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
	"github.com/felixgeelhaar/belief-eval/domain/transition"
)

func grapeEngine(t *testing.T) *transition.Engine {
	t.Helper()

	table, err := schema.FromDefinitions(map[string]schema.Definition{
		"move":             {AddSet: "(robot-at ?1 ?3)", DelSet: "(robot-at ?1 ?2)"},
		"check_grape_rp":   {AddSet: "(checked ?3),(ripe ?2)", DelSet: "(unchecked ?3)"},
		"check_grape_ur":   {AddSet: "(checked ?3),(unripe ?2)", DelSet: "(unchecked ?3)"},
		"check_grape_uk":   {AddSet: "(checked ?3),(unknown ?2)", DelSet: "(unchecked ?3)"},
		"handle_exception": {AddSet: "(handled ?2)", DelSet: "(unknown ?2)"},
		"assest_vine":      {AddSet: "(assessed ?2)"},
	})
	if err != nil {
		t.Fatalf("FromDefinitions error = %v", err)
	}
	return transition.NewEngine(table)
}

func grapeScorer(t *testing.T) *scoring.Scorer {
	t.Helper()
	return scoring.NewScorer(grapeEngine(t))
}

var groundTruth = plan.New(
	"(move rob l0 l1)",
	"(check_grape rob g1 l1)",
	"(handle_exception support0 g1 l1)",
	"(move rob l1 l2)",
	"(check_grape rob g2 l2)",
	"(assest_vine rob l2)",
)

// sequence replays draws in order, repeating the last one.
type sequence struct {
	draws []float64
	i     int
}

func (s *sequence) Float64() float64 {
	d := s.draws[s.i]
	if s.i < len(s.draws)-1 {
		s.i++
	}
	return d
}

// cycle replays draws in a loop.
type cycle struct {
	draws []float64
	i     int
}

func (c *cycle) Float64() float64 {
	d := c.draws[c.i%len(c.draws)]
	c.i++
	return d
}

// recordingMetrics counts metric calls.
type recordingMetrics struct {
	mu            sync.Mutex
	scores        map[string]int
	failedScores  int
	steps         int
	interruptions int
	queries       int
	failedQueries int
	episodes      map[string]int
	errors        int
	active        int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{scores: map[string]int{}, episodes: map[string]int{}}
}

func (m *recordingMetrics) RecordScore(_ context.Context, mode string, success bool, _, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.scores[mode]++
	} else {
		m.failedScores++
	}
}

func (m *recordingMetrics) RecordSimulationSteps(_ context.Context, steps int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps += steps
}

func (m *recordingMetrics) RecordInterruption(context.Context, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interruptions++
}

func (m *recordingMetrics) RecordQuery(_ context.Context, _ string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if !success {
		m.failedQueries++
	}
}

func (m *recordingMetrics) RecordEpisode(_ context.Context, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.episodes[outcome]++
}

func (m *recordingMetrics) RecordError(context.Context, string, map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

func (m *recordingMetrics) IncrementActiveEpisodes(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active++
}

func (m *recordingMetrics) DecrementActiveEpisodes(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
}

func (m *recordingMetrics) RecordCircuitBreakerStateChange(context.Context, string, bool) {}

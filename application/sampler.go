package application

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/belief-eval/domain/episode"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
)

// RandomSource yields uniform draws in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Sampler draws interrupted dialogue episodes over a ground-truth plan.
// The interruption probability starts at QuestionProbability and rises by
// (1-p)/len(plan) after every uninterrupted step, capped at 1.
type Sampler struct {
	question    string
	probability float64

	mu  sync.Mutex
	rng RandomSource
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithRandomSource sets the random source. Draws are serialized, so the
// source need not be safe for concurrent use.
func WithRandomSource(r RandomSource) SamplerOption {
	return func(s *Sampler) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSeed seeds a fresh math/rand source.
func WithSeed(seed int64) SamplerOption {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- sampling, not security
	}
}

// NewSampler creates a sampler asking question with initial probability p.
func NewSampler(question string, p float64, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		question:    question,
		probability: p,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- sampling, not security
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample walks groundTruth until the agent is interrupted or the plan ends.
func (s *Sampler) Sample(groundTruth plan.Plan) *episode.Episode {
	ep := &episode.Episode{ID: uuid.NewString()}

	n := groundTruth.Len()
	if n == 0 {
		return ep
	}

	p := s.probability
	increment := (1 - p) / float64(n)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		ep.PlanSoFar = append(ep.PlanSoFar, groundTruth.At(i))
		if s.rng.Float64() < p {
			ep.Interrupted = true
			ep.Question = s.question
			break
		}
		p += increment
		if p > 1 {
			p = 1
		}
	}
	ep.Transcript = plan.Numbered(ep.PlanSoFar)
	return ep
}

// Package scoring provides the belief scoring metric: it compares an
// agent's claimed fluent set against the true world state at one or more
// points along the plan.
package scoring

import (
	"errors"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/transition"
)

// Histogram collects the per-step overlap counts of a scoring call.
type Histogram struct {
	Correct        []int `json:"correct"`
	Missing        []int `json:"missing"`
	Hallucinations []int `json:"hallucinations"`
	Union          []int `json:"union"`
	// Steps is the number of actions in the plan so far.
	Steps int `json:"steps"`
}

func (h *Histogram) add(p Point) {
	h.Correct = append(h.Correct, p.Correct)
	h.Missing = append(h.Missing, p.Missing)
	h.Hallucinations = append(h.Hallucinations, p.Hallucination)
	h.Union = append(h.Union, p.Union)
}

// Result is the outcome of scoring one claimed belief.
type Result struct {
	Mode Mode `json:"mode"`

	// Gamma is the mean recall over all comparison points.
	Gamma float64 `json:"gamma"`
	// Gammas is the recall at each comparison point.
	Gammas []float64 `json:"gammas"`

	// Soundness is the mean precision over all comparison points.
	Soundness float64 `json:"soundness"`
	// Precisions is the precision at each comparison point.
	Precisions []float64 `json:"precisions"`

	Histogram Histogram `json:"histogram"`

	// TrueStates are the true state snapshots compared against, in order.
	TrueStates []fluent.State `json:"true_states"`
}

// Points returns the number of comparison points.
func (r *Result) Points() int {
	return len(r.Gammas)
}

// Scorer scores claimed beliefs against states simulated by an engine.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	engine *transition.Engine
}

// NewScorer creates a scorer over the engine.
func NewScorer(engine *transition.Engine) *Scorer {
	return &Scorer{engine: engine}
}

// Engine returns the underlying transition engine.
func (s *Scorer) Engine() *transition.Engine {
	return s.engine
}

// Score compares claimed against the true states selected by mode.
// planSoFar holds the actions executed so far; groundTruth is the full
// reference plan used for lookahead and, in ModeFuture, for the remaining
// actions. On error no partial result is returned.
func (s *Scorer) Score(planSoFar []string, groundTruth plan.Plan, claimed fluent.State, mode Mode) (*Result, error) {
	var (
		states []fluent.State
		err    error
	)
	switch mode {
	case ModeCurrent:
		states, err = s.current(planSoFar, groundTruth)
	case ModePast:
		states, err = s.engine.Trace(planSoFar, groundTruth)
	case ModeFuture:
		states, err = s.future(planSoFar, groundTruth)
	default:
		return nil, &ScoreError{Mode: mode, Step: 0, Err: ErrInvalidCategory}
	}
	if err != nil {
		return nil, &ScoreError{Mode: mode, Step: stepOf(err), Err: err}
	}
	if len(states) == 0 {
		return nil, &ScoreError{Mode: mode, Step: 0, Err: ErrNoComparisonPoints}
	}

	result := &Result{
		Mode:       mode,
		Gammas:     make([]float64, 0, len(states)),
		Precisions: make([]float64, 0, len(states)),
		Histogram:  Histogram{Steps: len(planSoFar)},
		TrueStates: states,
	}

	var recallSum, precisionSum float64
	for i, state := range states {
		p, err := Compare(state, claimed)
		if err != nil {
			return nil, &ScoreError{Mode: mode, Step: i, Err: err}
		}
		result.Gammas = append(result.Gammas, p.Recall)
		result.Precisions = append(result.Precisions, p.Precision)
		result.Histogram.add(p)
		recallSum += p.Recall
		precisionSum += p.Precision
	}

	n := float64(len(states))
	result.Gamma = recallSum / n
	result.Soundness = precisionSum / n
	return result, nil
}

func (s *Scorer) current(planSoFar []string, groundTruth plan.Plan) ([]fluent.State, error) {
	state, err := s.engine.SimulateFromInit(planSoFar, groundTruth)
	if err != nil {
		return nil, err
	}
	return []fluent.State{state}, nil
}

// future returns the state before each remaining ground-truth action,
// starting with the state after planSoFar. The last remaining action is
// never applied.
func (s *Scorer) future(planSoFar []string, groundTruth plan.Plan) ([]fluent.State, error) {
	start := len(planSoFar)
	remaining := groundTruth.From(start)
	if len(remaining) == 0 {
		return nil, nil
	}

	state, err := s.engine.SimulateFromInit(planSoFar, groundTruth)
	if err != nil {
		return nil, err
	}

	states := make([]fluent.State, 0, len(remaining))
	for k, text := range remaining {
		states = append(states, state)
		if k == len(remaining)-1 {
			break
		}
		state, err = s.engine.Step(state, start+k, text, groundTruth)
		if err != nil {
			return nil, err
		}
	}
	return states, nil
}

func stepOf(err error) int {
	var stepErr *transition.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Index
	}
	return 0
}

package scoring

import "github.com/felixgeelhaar/belief-eval/domain/fluent"

// Point holds the overlap statistics of one comparison between a true state
// and a claimed fluent set.
type Point struct {
	// Recall is |true ∩ claimed| / |true|.
	Recall float64 `json:"recall"`
	// Precision is |true ∩ claimed| / |claimed|.
	Precision float64 `json:"precision"`

	Correct       int `json:"correct"`
	Missing       int `json:"missing"`
	Hallucination int `json:"hallucination"`
	Union         int `json:"union"`
}

// Compare computes the overlap statistics of claimed against trueState.
// Both sets must be non-empty.
func Compare(trueState, claimed fluent.State) (Point, error) {
	if trueState.Len() == 0 {
		return Point{}, ErrEmptyTrueState
	}
	if claimed.Len() == 0 {
		return Point{}, ErrEmptyClaim
	}

	correct := trueState.Intersect(claimed).Len()
	return Point{
		Recall:        float64(correct) / float64(trueState.Len()),
		Precision:     float64(correct) / float64(claimed.Len()),
		Correct:       correct,
		Missing:       trueState.Len() - correct,
		Hallucination: claimed.Len() - correct,
		Union:         trueState.Len() + claimed.Len() - correct,
	}, nil
}

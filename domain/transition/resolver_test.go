package transition_test

import (
	"testing"

	"github.com/felixgeelhaar/belief-eval/domain/transition"
)

func TestGrapeInspectionResolver(t *testing.T) {
	t.Parallel()

	resolve := transition.GrapeInspectionResolver()

	tests := []struct {
		name  string
		input string
		next  string
		want  string
	}{
		{"exception", transition.CheckGrape, "(handle_exception support0 g1 l1)", transition.CheckGrapeUnknown},
		{"vine", transition.CheckGrape, "(assest_vine rob l1)", transition.CheckGrapeUnripe},
		{"other", transition.CheckGrape, "(move rob l1 l2)", transition.CheckGrapeRipe},
		{"no next", transition.CheckGrape, "", transition.CheckGrapeRipe},
		{"concrete passes through", transition.CheckGrapeUnripe, "(handle_exception support0 g1 l1)", transition.CheckGrapeUnripe},
		{"unrelated passes through", "move", "(handle_exception support0 g1 l1)", "move"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolve(tt.input, tt.next); got != tt.want {
				t.Errorf("resolve(%q, %q) = %q, want %q", tt.input, tt.next, got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	if got := transition.Identity(transition.CheckGrape, "(handle_exception)"); got != transition.CheckGrape {
		t.Errorf("Identity = %q", got)
	}
}

package plan_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/belief-eval/domain/plan"
)

const samplePlan = `(move rob l0 l1)
(check_grape rob g1 l1)

(handle_exception support0 g1 l1)
; cost = 3 (unit cost)
`

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := plan.Parse(strings.NewReader(samplePlan))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}

	want := []string{
		"(move rob l0 l1)",
		"(check_grape rob g1 l1)",
		"(handle_exception support0 g1 l1)",
	}
	if diff := cmp.Diff(want, p.Actions()); diff != "" {
		t.Errorf("Actions() mismatch (-want +got):\n%s", diff)
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
}

func TestParse_InvalidLine(t *testing.T) {
	t.Parallel()

	_, err := plan.Parse(strings.NewReader("(move rob l0 l1)\n()\n"))
	if !errors.Is(err, plan.ErrInvalidAction) {
		t.Errorf("Parse error = %v, want ErrInvalidAction", err)
	}
}

func TestPlan_Navigation(t *testing.T) {
	t.Parallel()

	p := plan.New("a", "  ", "b", "c ")

	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if p.At(2) != "c" {
		t.Errorf("At(2) = %q, want c", p.At(2))
	}

	if next, ok := p.Next(0); !ok || next != "b" {
		t.Errorf("Next(0) = %q, %v", next, ok)
	}
	if _, ok := p.Next(2); ok {
		t.Error("Next(last) should report no next action")
	}

	prefix, err := p.Prefix(2)
	if err != nil {
		t.Fatalf("Prefix error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, prefix); diff != "" {
		t.Errorf("Prefix(2) mismatch (-want +got):\n%s", diff)
	}
	if _, err := p.Prefix(4); !errors.Is(err, plan.ErrPrefixOutOfRange) {
		t.Errorf("Prefix(4) error = %v, want ErrPrefixOutOfRange", err)
	}

	if diff := cmp.Diff([]string{"b", "c"}, p.From(1)); diff != "" {
		t.Errorf("From(1) mismatch (-want +got):\n%s", diff)
	}
	if p.From(3) != nil {
		t.Error("From(len) should be nil")
	}
}

func TestPlan_ActionsIsCopy(t *testing.T) {
	t.Parallel()

	p := plan.New("a", "b")
	actions := p.Actions()
	actions[0] = "mutated"

	if p.At(0) != "a" {
		t.Error("mutating Actions() result should not change the plan")
	}
}

func TestNumbered(t *testing.T) {
	t.Parallel()

	got := plan.Numbered([]string{"move rob l0 l1", "pick rob g1"})
	want := []string{"1) move rob l0 l1", "2) pick rob g1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Numbered mismatch (-want +got):\n%s", diff)
	}
}

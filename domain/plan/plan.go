// Package plan provides the ground-truth plan and plan prefixes.
package plan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/belief-eval/domain/action"
)

// Domain errors for plans.
var (
	// ErrPrefixOutOfRange indicates a prefix length beyond the plan length.
	ErrPrefixOutOfRange = errors.New("plan prefix out of range")

	// ErrInvalidAction indicates a plan line could not be parsed as an action.
	ErrInvalidAction = errors.New("invalid plan action")
)

// Plan is an ordered, immutable sequence of action texts.
type Plan struct {
	actions []string
}

// New creates a plan from action texts. Surrounding whitespace is trimmed
// and blank entries are dropped.
func New(actions ...string) Plan {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		out = append(out, a)
	}
	return Plan{actions: out}
}

// Parse reads a newline-delimited plan. Blank lines and planner comment
// lines starting with ';' are skipped. Every remaining line must parse as
// an action.
func Parse(r io.Reader) (Plan, error) {
	var actions []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}
		if _, err := action.Parse(text); err != nil {
			return Plan{}, fmt.Errorf("%w: line %d: %v", ErrInvalidAction, line, err)
		}
		actions = append(actions, text)
	}
	if err := scanner.Err(); err != nil {
		return Plan{}, fmt.Errorf("failed to read plan: %w", err)
	}
	return Plan{actions: actions}, nil
}

// Len returns the number of actions.
func (p Plan) Len() int {
	return len(p.actions)
}

// At returns the action text at index i.
func (p Plan) At(i int) string {
	return p.actions[i]
}

// Next returns the action following index i, if any.
func (p Plan) Next(i int) (string, bool) {
	if i+1 < 0 || i+1 >= len(p.actions) {
		return "", false
	}
	return p.actions[i+1], true
}

// Actions returns a copy of the action texts.
func (p Plan) Actions() []string {
	out := make([]string, len(p.actions))
	copy(out, p.actions)
	return out
}

// Prefix returns the first n actions.
func (p Plan) Prefix(n int) ([]string, error) {
	if n < 0 || n > len(p.actions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPrefixOutOfRange, n, len(p.actions))
	}
	out := make([]string, n)
	copy(out, p.actions[:n])
	return out, nil
}

// From returns the actions from index n onwards, or nil when n is past the end.
func (p Plan) From(n int) []string {
	if n < 0 {
		n = 0
	}
	if n >= len(p.actions) {
		return nil
	}
	out := make([]string, len(p.actions)-n)
	copy(out, p.actions[n:])
	return out
}

// Numbered renders actions as "1) action" lines, the form shown
// to the agent when it is interrupted.
func Numbered(actions []string) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = fmt.Sprintf("%d) %s", i+1, a)
	}
	return out
}

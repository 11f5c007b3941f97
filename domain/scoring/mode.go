package scoring

import (
	"fmt"
	"strings"
)

// Mode selects which time steps a claimed belief is compared against.
type Mode string

// Scoring modes.
const (
	// ModeCurrent compares against the state right after the plan so far.
	ModeCurrent Mode = "current"

	// ModePast compares against the state after every prefix of the plan so far.
	ModePast Mode = "past"

	// ModeFuture compares against the state before each remaining ground-truth action.
	ModeFuture Mode = "future"
)

// Modes returns all modes in canonical order.
func Modes() []Mode {
	return []Mode{ModeCurrent, ModePast, ModeFuture}
}

// ParseMode parses a mode name. It accepts the canonical names and the
// category labels used by the experiment scripts (Current_action,
// Past_actions, Future_actions), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "current_action":
		return ModeCurrent, nil
	case "past", "past_actions":
		return ModePast, nil
	case "future", "future_actions":
		return ModeFuture, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeCurrent, ModePast, ModeFuture:
		return true
	default:
		return false
	}
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

package transition

import "strings"

// Resolver maps an action name to the concrete schema name to ground it
// with, given the text of the next ground-truth action ("" when there is
// none).
//
// This is a domain hook for actions whose real outcome depends on the
// environment and is only known by looking ahead in the reference plan. It
// is not part of general STRIPS semantics.
type Resolver func(name, next string) string

// Identity is the resolver that never rewrites.
func Identity(name, _ string) string {
	return name
}

// LookaheadRule rewrites a generic action to the concrete variant chosen by
// the first Case whose marker occurs in the next ground-truth action.
type LookaheadRule struct {
	// Generic is the action name to rewrite.
	Generic string
	// Cases are checked in order.
	Cases []LookaheadCase
	// Default is used when no case matches, including when there is no next action.
	Default string
}

// LookaheadCase selects Concrete when Marker occurs in the next action.
type LookaheadCase struct {
	Marker   string
	Concrete string
}

// Lookahead builds a resolver from rules. Names without a rule pass through.
func Lookahead(rules ...LookaheadRule) Resolver {
	byName := make(map[string]LookaheadRule, len(rules))
	for _, r := range rules {
		byName[r.Generic] = r
	}
	return func(name, next string) string {
		rule, ok := byName[name]
		if !ok {
			return name
		}
		for _, c := range rule.Cases {
			if next != "" && strings.Contains(next, c.Marker) {
				return c.Concrete
			}
		}
		return rule.Default
	}
}

// Package fluent provides the ground predicate and world state value types.
package fluent

import (
	"strings"
)

// Fluent is a ground atomic predicate in normalized text form,
// e.g. "robot-at rob l0".
type Fluent string

// Normalize converts raw predicate text into a Fluent. Enclosing
// parentheses are stripped and whitespace runs collapse to a single space,
// so "(robot-at rob l0)" and "robot-at  rob l0" normalize to the same value.
func Normalize(raw string) Fluent {
	return Fluent(strings.Join(Tokenize(raw), " "))
}

// Tokenize splits raw predicate text into its predicate and argument tokens.
func Tokenize(raw string) []string {
	s := strings.TrimSpace(raw)
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return strings.Fields(s)
}

// FromTokens renders tokens back into a Fluent.
func FromTokens(tokens []string) Fluent {
	return Fluent(strings.Join(tokens, " "))
}

// Tokens returns the predicate followed by its arguments.
func (f Fluent) Tokens() []string {
	return strings.Fields(string(f))
}

// Predicate returns the predicate name, or "" for an empty fluent.
func (f Fluent) Predicate() string {
	tokens := f.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// String returns the fluent text.
func (f Fluent) String() string {
	return string(f)
}

// PDDL renders the fluent in parenthesised form.
func (f Fluent) PDDL() string {
	return "(" + string(f) + ")"
}

// IsZero reports whether the fluent is empty.
func (f Fluent) IsZero() bool {
	return f == ""
}

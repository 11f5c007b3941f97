package fluent

import (
	"encoding/json"
	"sort"
)

// State is a world state: a finite set of fluents that hold. A fluent that
// is absent is false.
//
// State values returned by the set operations are always fresh; receivers
// are never mutated except by Add and Remove.
type State map[Fluent]struct{}

// NewState creates a state holding the given fluents, normalized so that
// "(robot-at rob l0)" and "robot-at rob l0" are the same member.
func NewState(fluents ...Fluent) State {
	s := make(State, len(fluents))
	s.Add(fluents...)
	return s
}

// ParseState normalizes raw predicate strings into a state.
// Empty entries are skipped.
func ParseState(raw ...string) State {
	s := make(State, len(raw))
	for _, r := range raw {
		f := Normalize(r)
		if f.IsZero() {
			continue
		}
		s[f] = struct{}{}
	}
	return s
}

// Len returns the number of fluents in the state.
func (s State) Len() int {
	return len(s)
}

// Has reports whether the fluent holds.
func (s State) Has(f Fluent) bool {
	_, ok := s[f]
	return ok
}

// Add normalizes and inserts fluents in place. Adding a fluent already
// present is a no-op.
func (s State) Add(fluents ...Fluent) {
	for _, f := range fluents {
		f = Normalize(string(f))
		if f.IsZero() {
			continue
		}
		s[f] = struct{}{}
	}
}

// Remove deletes fluents in place. Removing an absent fluent is a no-op.
func (s State) Remove(fluents ...Fluent) {
	for _, f := range fluents {
		delete(s, Normalize(string(f)))
	}
}

// Clone returns a copy of the state.
func (s State) Clone() State {
	c := make(State, len(s))
	for f := range s {
		c[f] = struct{}{}
	}
	return c
}

// Union returns s ∪ other.
func (s State) Union(other State) State {
	u := make(State, len(s)+len(other))
	for f := range s {
		u[f] = struct{}{}
	}
	for f := range other {
		u[f] = struct{}{}
	}
	return u
}

// Intersect returns s ∩ other.
func (s State) Intersect(other State) State {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	i := make(State)
	for f := range small {
		if large.Has(f) {
			i[f] = struct{}{}
		}
	}
	return i
}

// Difference returns s \ other.
func (s State) Difference(other State) State {
	d := make(State)
	for f := range s {
		if !other.Has(f) {
			d[f] = struct{}{}
		}
	}
	return d
}

// Equal reports whether both states hold exactly the same fluents.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for f := range s {
		if !other.Has(f) {
			return false
		}
	}
	return true
}

// Sorted returns the fluents in lexical order.
func (s State) Sorted() []Fluent {
	out := make([]Fluent, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the fluents as sorted strings.
func (s State) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, f := range sorted {
		out[i] = string(f)
	}
	return out
}

// MarshalJSON encodes the state as a sorted array of fluent strings.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of fluent strings, normalizing each.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseState(raw...)
	return nil
}

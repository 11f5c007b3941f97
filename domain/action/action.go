// Package action provides parsing of ground action instances.
package action

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// ErrEmptyAction indicates the action text has no name token.
var ErrEmptyAction = errors.New("empty action")

// Instance is a ground action: a name plus ordered argument tokens.
type Instance struct {
	// Name is the action name, e.g. "move".
	Name string `json:"name"`

	// Args are the positional arguments, e.g. ["rob", "l0", "l1"].
	Args []string `json:"args"`
}

// Parse parses flat action text such as "(move rob l0 l1)".
// Enclosing parentheses are stripped and tokens split on whitespace.
func Parse(text string) (Instance, error) {
	tokens := fluent.Tokenize(text)
	if len(tokens) == 0 {
		return Instance{}, fmt.Errorf("%w: %q", ErrEmptyAction, text)
	}
	return Instance{
		Name: tokens[0],
		Args: tokens[1:],
	}, nil
}

// WithName returns a copy of the instance under a different name.
func (i Instance) WithName(name string) Instance {
	args := make([]string, len(i.Args))
	copy(args, i.Args)
	return Instance{Name: name, Args: args}
}

// Arg returns the k-th argument (1-indexed).
func (i Instance) Arg(k int) (string, bool) {
	if k < 1 || k > len(i.Args) {
		return "", false
	}
	return i.Args[k-1], true
}

// String renders the instance as "name arg1 arg2 ...".
func (i Instance) String() string {
	if len(i.Args) == 0 {
		return i.Name
	}
	return i.Name + " " + strings.Join(i.Args, " ")
}

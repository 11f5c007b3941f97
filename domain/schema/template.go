// Package schema provides parametrized action schemas and the immutable
// schema table used to ground action effects.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// Template is a fluent with positional placeholders ?1, ?2, ... in place of
// some of its tokens. Substitution works on whole tokens, so ?1 never
// matches inside ?10 or any other token.
type Template struct {
	tokens []string
	// slots[i] is the 1-based argument index for tokens[i], or 0 for a literal.
	slots []int
	arity int
}

// ParseTemplate parses a single fluent template such as "(robot-at ?1 ?3)".
func ParseTemplate(raw string) (Template, error) {
	tokens := fluent.Tokenize(raw)
	if len(tokens) == 0 {
		return Template{}, fmt.Errorf("%w: empty template", ErrInvalidTemplate)
	}

	t := Template{
		tokens: tokens,
		slots:  make([]int, len(tokens)),
	}
	for i, tok := range tokens {
		if !strings.HasPrefix(tok, "?") {
			continue
		}
		k, err := strconv.Atoi(tok[1:])
		if err != nil || k < 1 {
			return Template{}, fmt.Errorf("%w: placeholder %q in %q", ErrInvalidTemplate, tok, raw)
		}
		if i == 0 {
			return Template{}, fmt.Errorf("%w: predicate cannot be a placeholder in %q", ErrInvalidTemplate, raw)
		}
		t.slots[i] = k
		if k > t.arity {
			t.arity = k
		}
	}
	return t, nil
}

// ParseTemplateList parses a comma-separated list of templates. Blank
// entries are skipped, so "" yields an empty list.
func ParseTemplateList(list string) ([]Template, error) {
	var out []Template
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTemplate(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Arity returns the highest placeholder index used by the template.
func (t Template) Arity() int {
	return t.arity
}

// Expand substitutes args into the template's placeholders.
func (t Template) Expand(args []string) (fluent.Fluent, error) {
	out := make([]string, len(t.tokens))
	for i, tok := range t.tokens {
		k := t.slots[i]
		if k == 0 {
			out[i] = tok
			continue
		}
		if k > len(args) {
			return "", fmt.Errorf("%w: ?%d in %q with %d argument(s)", ErrMissingArgument, k, t.String(), len(args))
		}
		out[i] = args[k-1]
	}
	return fluent.FromTokens(out), nil
}

// String renders the template back to text.
func (t Template) String() string {
	return strings.Join(t.tokens, " ")
}

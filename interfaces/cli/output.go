package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// writeState writes one fluent per line in sorted order.
func writeState(w io.Writer, s fluent.State) {
	for _, f := range s.Sorted() {
		fmt.Fprintf(w, "  %s\n", f.PDDL())
	}
}

package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/schema"
)

// LoadSchemaTable loads an action schema table from a JSON or YAML file
// mapping action names to {add_set, del_set} definitions.
func LoadSchemaTable(path string) (*schema.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := openRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSchemaTable(f, format)
}

// ReadSchemaTable decodes an action schema table from r.
func ReadSchemaTable(r io.Reader, format Format) (*schema.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema table: %w", err)
	}
	defs := map[string]schema.Definition{}
	if err := unmarshal(data, format, &defs); err != nil {
		return nil, err
	}
	return schema.FromDefinitions(defs)
}

// LoadPlan loads a ground-truth plan, one action per line.
func LoadPlan(path string) (plan.Plan, error) {
	f, err := openRegular(path)
	if err != nil {
		return plan.Plan{}, err
	}
	defer f.Close()

	p, err := plan.Parse(f)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadClaims loads a claimed fluent set. A .json file holds an array of
// fluent strings; any other file holds one fluent per line, with blank and
// ';' comment lines skipped.
func LoadClaims(path string) (fluent.State, error) {
	f, err := openRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format, err := FormatFromPath(path); err == nil && format == FormatJSON {
		var state fluent.State
		if err := json.NewDecoder(f).Decode(&state); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
		}
		return state, nil
	}
	return ReadClaims(f)
}

// ReadClaims reads one fluent per line from r.
func ReadClaims(r io.Reader) (fluent.State, error) {
	state := fluent.NewState()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		state.Add(fluent.Normalize(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read claims: %w", err)
	}
	return state, nil
}

package schema

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/belief-eval/domain/action"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
)

// Definition is the on-disk form of a schema: comma-separated template
// lists for the add and delete effects.
type Definition struct {
	AddSet string `json:"add_set" yaml:"add_set"`
	DelSet string `json:"del_set" yaml:"del_set"`
}

// Schema is a named action template with add and delete effects.
type Schema struct {
	Name string
	Add  []Template
	Del  []Template
}

// New builds a schema from its definition.
func New(name string, def Definition) (Schema, error) {
	if name == "" {
		return Schema{}, fmt.Errorf("%w: empty name", ErrInvalidSchema)
	}
	add, err := ParseTemplateList(def.AddSet)
	if err != nil {
		return Schema{}, fmt.Errorf("schema %s add_set: %w", name, err)
	}
	del, err := ParseTemplateList(def.DelSet)
	if err != nil {
		return Schema{}, fmt.Errorf("schema %s del_set: %w", name, err)
	}
	return Schema{Name: name, Add: add, Del: del}, nil
}

// Arity returns the number of arguments the schema's templates reference.
func (s Schema) Arity() int {
	arity := 0
	for _, t := range s.Add {
		arity = max(arity, t.Arity())
	}
	for _, t := range s.Del {
		arity = max(arity, t.Arity())
	}
	return arity
}

// Ground expands the schema's effects for an action instance.
func (s Schema) Ground(inst action.Instance) (add, del fluent.State, err error) {
	add, err = expandAll(s.Add, inst.Args)
	if err != nil {
		return nil, nil, fmt.Errorf("%s add effect: %w", inst.Name, err)
	}
	del, err = expandAll(s.Del, inst.Args)
	if err != nil {
		return nil, nil, fmt.Errorf("%s delete effect: %w", inst.Name, err)
	}
	return add, del, nil
}

func expandAll(templates []Template, args []string) (fluent.State, error) {
	out := make(fluent.State, len(templates))
	for _, t := range templates {
		f, err := t.Expand(args)
		if err != nil {
			return nil, err
		}
		out.Add(f)
	}
	return out, nil
}

// Table is the immutable set of action schemas keyed by name.
// It is safe for concurrent use.
type Table struct {
	schemas map[string]Schema
}

// NewTable builds a table from schemas. Names must be unique.
func NewTable(schemas ...Schema) (*Table, error) {
	t := &Table{schemas: make(map[string]Schema, len(schemas))}
	for _, s := range schemas {
		if _, exists := t.schemas[s.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSchema, s.Name)
		}
		t.schemas[s.Name] = s
	}
	return t, nil
}

// FromDefinitions builds a table from on-disk definitions.
func FromDefinitions(defs map[string]Definition) (*Table, error) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	schemas := make([]Schema, 0, len(defs))
	for _, name := range names {
		s, err := New(name, defs[name])
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return NewTable(schemas...)
}

// Lookup returns the schema for an action name.
func (t *Table) Lookup(name string) (Schema, error) {
	s, ok := t.schemas[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return s, nil
}

// Has reports whether the table contains a schema for name.
func (t *Table) Has(name string) bool {
	_, ok := t.schemas[name]
	return ok
}

// Names returns the schema names in lexical order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.schemas))
	for name := range t.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of schemas.
func (t *Table) Len() int {
	return len(t.schemas)
}

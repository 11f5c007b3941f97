// Package transition provides the STRIPS-style state transition engine: it
// grounds actions against the schema table and folds their add and delete
// effects over a world state.
package transition

import (
	"github.com/felixgeelhaar/belief-eval/domain/action"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/schema"
)

// Effect is a grounded action with its concrete add and delete sets.
type Effect struct {
	Action action.Instance
	Add    fluent.State
	Del    fluent.State
}

// Engine simulates world states forward from a fixed initial state.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	table    *schema.Table
	initial  fluent.State
	resolver Resolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithInitialState sets the state simulation starts from.
func WithInitialState(s fluent.State) Option {
	return func(e *Engine) {
		e.initial = s.Clone()
	}
}

// WithResolver sets the lookahead resolver used to disambiguate actions.
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// NewEngine creates an engine over the schema table. By default it starts
// from the grape inspection state and uses the grape inspection resolver.
func NewEngine(table *schema.Table, opts ...Option) *Engine {
	e := &Engine{
		table:    table,
		initial:  GrapeInspectionState(),
		resolver: GrapeInspectionResolver(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InitialState returns a copy of the initial state.
func (e *Engine) InitialState() fluent.State {
	return e.initial.Clone()
}

// Table returns the schema table.
func (e *Engine) Table() *schema.Table {
	return e.table
}

// Resolve parses action text and grounds it against its schema.
func (e *Engine) Resolve(text string) (Effect, error) {
	inst, err := action.Parse(text)
	if err != nil {
		return Effect{}, err
	}
	return e.ground(inst)
}

func (e *Engine) ground(inst action.Instance) (Effect, error) {
	s, err := e.table.Lookup(inst.Name)
	if err != nil {
		return Effect{}, err
	}
	add, del, err := s.Ground(inst)
	if err != nil {
		return Effect{}, err
	}
	return Effect{Action: inst, Add: add, Del: del}, nil
}

// ResolveAt grounds the action at plan index i. Its name is first passed
// through the resolver with the ground-truth action at index i+1 as
// lookahead.
func (e *Engine) ResolveAt(i int, text string, groundTruth plan.Plan) (Effect, error) {
	inst, err := action.Parse(text)
	if err != nil {
		return Effect{}, err
	}
	next, _ := groundTruth.Next(i)
	if name := e.resolver(inst.Name, next); name != inst.Name {
		inst = inst.WithName(name)
	}
	return e.ground(inst)
}

// Apply returns (state ∪ add) \ del. The delete set is applied after the
// add set, so a fluent in both is absent afterwards. state is not modified.
func Apply(state, add, del fluent.State) fluent.State {
	next := state.Union(add)
	next.Remove(del.Sorted()...)
	return next
}

// Step applies the action at plan index i to state.
func (e *Engine) Step(state fluent.State, i int, text string, groundTruth plan.Plan) (fluent.State, error) {
	eff, err := e.ResolveAt(i, text, groundTruth)
	if err != nil {
		return nil, &StepError{Index: i, Action: text, Err: err}
	}
	return Apply(state, eff.Add, eff.Del), nil
}

// SimulateFromInit applies actions in order starting from the initial
// state and returns the final state. groundTruth provides the lookahead for
// disambiguation; with a zero Plan the resolver never sees a next action.
func (e *Engine) SimulateFromInit(actions []string, groundTruth plan.Plan) (fluent.State, error) {
	state := e.InitialState()
	for i, text := range actions {
		next, err := e.Step(state, i, text, groundTruth)
		if err != nil {
			return nil, err
		}
		state = next
	}
	return state, nil
}

// Trace returns the state after each prefix of actions: element k is the
// state after actions[:k+1]. It is equivalent to calling SimulateFromInit
// for every prefix, computed in a single pass.
func (e *Engine) Trace(actions []string, groundTruth plan.Plan) ([]fluent.State, error) {
	snapshots := make([]fluent.State, 0, len(actions))
	state := e.InitialState()
	for i, text := range actions {
		next, err := e.Step(state, i, text, groundTruth)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, next)
		state = next
	}
	return snapshots, nil
}

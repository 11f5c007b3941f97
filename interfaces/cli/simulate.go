package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/belief-eval/application"
	"github.com/felixgeelhaar/belief-eval/domain/config"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/transition"
	configloader "github.com/felixgeelhaar/belief-eval/infrastructure/config"
)

// inputOptions are the input flags shared by simulate and score.
type inputOptions struct {
	schemaPath string
	planPath   string
	resolver   string
	steps      int
}

func (o *inputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.schemaPath, "schema", "", "Path to the action schema table (JSON or YAML)")
	cmd.Flags().StringVar(&o.planPath, "plan", "", "Path to the ground-truth plan")
	cmd.Flags().StringVar(&o.resolver, "resolver", config.DefaultResolver, "Placeholder resolver (grape, identity)")
	cmd.Flags().IntVar(&o.steps, "steps", -1, "Number of plan actions executed so far (default all)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("plan")
}

// load reads the schema table and plan and returns the engine and the
// executed prefix.
func (o *inputOptions) load() (*transition.Engine, plan.Plan, []string, error) {
	table, err := configloader.LoadSchemaTable(o.schemaPath)
	if err != nil {
		return nil, plan.Plan{}, nil, err
	}
	gt, err := configloader.LoadPlan(o.planPath)
	if err != nil {
		return nil, plan.Plan{}, nil, err
	}

	cfg := &config.EvalConfig{Scenario: config.ScenarioConfig{Resolver: o.resolver}}
	engine, err := application.NewEngineFromConfig(cfg, table)
	if err != nil {
		return nil, plan.Plan{}, nil, err
	}

	steps := o.steps
	if steps < 0 {
		steps = gt.Len()
	}
	prefix, err := gt.Prefix(steps)
	if err != nil {
		return nil, plan.Plan{}, nil, err
	}
	return engine, gt, prefix, nil
}

// simulateOptions holds options for the simulate command.
type simulateOptions struct {
	inputOptions
	jsonOutput bool
}

// simulationOutput is the JSON form of a simulation.
type simulationOutput struct {
	Steps int          `json:"steps"`
	State fluent.State `json:"state"`
}

// newSimulateCmd creates the simulate command.
func (a *App) newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print the world state after a plan prefix",
		Long: `Simulate the first n actions of a plan from the initial state and print
the resulting world state.

Examples:
  # State after the whole plan
  beliefeval simulate --schema action_schemas.json --plan plan.txt

  # State after the first three actions, as JSON
  beliefeval simulate --schema action_schemas.json --plan plan.txt --steps 3 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *App) simulate(opts *simulateOptions) error {
	engine, gt, prefix, err := opts.load()
	if err != nil {
		return err
	}

	state, err := engine.SimulateFromInit(prefix, gt)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(a.stdout, simulationOutput{Steps: len(prefix), State: state})
	}

	fmt.Fprintf(a.stdout, "State after %d of %d actions (%d fluents):\n", len(prefix), gt.Len(), state.Len())
	writeState(a.stdout, state)
	return nil
}

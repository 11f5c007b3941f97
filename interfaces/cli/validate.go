package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/belief-eval/application"
	configloader "github.com/felixgeelhaar/belief-eval/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an evaluation configuration and its inputs",
		Long: `Validate an evaluation configuration file and the files it names.

This command checks:
  - File format (YAML or JSON)
  - Required fields (name, version, inputs)
  - Field types and constraints
  - The action schema table, ground-truth plan and claims parse
  - Every plan action resolves against the schema table
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  beliefeval validate -c eval.yaml

  # Strict validation (fail on missing env vars)
  beliefeval validate -c eval.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validateConfig validates the configuration file and its inputs.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loaderOpts := []configloader.LoaderOption{
		configloader.WithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, configloader.WithStrictEnv(true))
	}

	cfg, err := configloader.NewLoaderWithOptions(loaderOpts...).LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	in, err := application.LoadInputs(cfg)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	engine, err := application.NewEngineFromConfig(cfg, in.Table)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, err := engine.SimulateFromInit(in.GroundTruth.Actions(), in.GroundTruth); err != nil {
		return fmt.Errorf("validation failed: plan does not simulate: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	if cfg.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", cfg.Description)
	}

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Action schemas: %d\n", in.Table.Len())
	fmt.Fprintf(a.stdout, "  Plan actions: %d\n", in.GroundTruth.Len())
	if in.Claims != nil {
		fmt.Fprintf(a.stdout, "  Claimed fluents: %d\n", in.Claims.Len())
	}
	fmt.Fprintf(a.stdout, "  Belief source: %s\n", cfg.Agent.Source)
	fmt.Fprintf(a.stdout, "  Scoring modes: %v\n", cfg.Scoring.Modes)
	fmt.Fprintf(a.stdout, "  Episodes: %d (concurrency %d)\n", cfg.Sampler.Episodes, cfg.Runner.Concurrency)

	return nil
}

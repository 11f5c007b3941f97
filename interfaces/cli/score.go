package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/belief-eval/application"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
	configloader "github.com/felixgeelhaar/belief-eval/infrastructure/config"
)

// scoreOptions holds options for the score command.
type scoreOptions struct {
	inputOptions
	claimsPath string
	mode       string
	jsonOutput bool
}

// newScoreCmd creates the score command.
func (a *App) newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a claimed belief against the simulated plan",
		Long: `Score a claimed fluent set against the true world state.

Modes:
  current  the state right after the plan so far
  past     the state after every prefix of the plan so far
  future   the state before each remaining ground-truth action

Examples:
  # Score claims after four actions in current mode
  beliefeval score --schema action_schemas.json --plan plan.txt \
    --claims claims.txt --steps 4 --mode current

  # Past mode, as JSON
  beliefeval score --schema action_schemas.json --plan plan.txt \
    --claims claims.txt --steps 4 --mode past --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.score(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.claimsPath, "claims", "", "Path to the claimed fluents")
	cmd.Flags().StringVar(&opts.mode, "mode", string(scoring.ModeCurrent), "Scoring mode (current, past, future)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("claims")

	return cmd
}

func (a *App) score(cmd *cobra.Command, opts *scoreOptions) error {
	mode, err := scoring.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	engine, gt, prefix, err := opts.load()
	if err != nil {
		return err
	}
	claimed, err := configloader.LoadClaims(opts.claimsPath)
	if err != nil {
		return err
	}

	evaluator := application.NewEvaluator(scoring.NewScorer(engine))
	result, err := evaluator.Score(cmd.Context(), prefix, gt, claimed, mode)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(a.stdout, result)
	}

	fmt.Fprintf(a.stdout, "Mode: %s\n", result.Mode)
	fmt.Fprintf(a.stdout, "  Steps executed: %d of %d\n", len(prefix), gt.Len())
	fmt.Fprintf(a.stdout, "  Comparison points: %d\n", result.Points())
	fmt.Fprintf(a.stdout, "  Gamma: %.4f\n", result.Gamma)
	fmt.Fprintf(a.stdout, "  Soundness: %.4f\n", result.Soundness)
	return nil
}

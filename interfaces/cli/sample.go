package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/belief-eval/application"
	"github.com/felixgeelhaar/belief-eval/domain/config"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
	configloader "github.com/felixgeelhaar/belief-eval/infrastructure/config"
	"github.com/felixgeelhaar/belief-eval/infrastructure/logging"
	"github.com/felixgeelhaar/belief-eval/infrastructure/observability"
	"github.com/felixgeelhaar/belief-eval/infrastructure/telemetry"
)

// sampleOptions holds options for the sample command.
type sampleOptions struct {
	configPath string
	episodes   int
	jsonOutput bool
}

// newSampleCmd creates the sample command.
func (a *App) newSampleCmd() *cobra.Command {
	opts := &sampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run a batch of interrupted episodes",
		Long: `Run a batch of episodes. Each episode walks the ground-truth plan, is
interrupted at a random step, asks the configured belief source for its
claimed world state, and scores the claim in every configured mode.

Examples:
  # Run the configured number of episodes
  beliefeval sample -c eval.yaml

  # Run 100 episodes and print every report as JSON
  beliefeval sample -c eval.yaml --episodes 100 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sample(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.episodes, "episodes", 0, "Number of episodes (overrides sampler.episodes)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (a *App) sample(ctx context.Context, opts *sampleOptions) error {
	cfg, err := configloader.NewLoader().LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over the configuration file.
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	a.initLogging(level, format)

	provider, err := observability.New(a.tracingOptions(cfg.Telemetry.Tracing)...)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("tracer shutdown failed")
		}
	}()

	metrics := telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
	if err := metrics.Error(); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	in, err := application.LoadInputs(cfg)
	if err != nil {
		return err
	}
	runner, err := application.NewRunnerFromConfig(cfg, in,
		application.WithMetrics(metrics),
		application.WithTracer(provider.Tracer()),
	)
	if err != nil {
		return err
	}

	episodes := cfg.Sampler.Episodes
	if opts.episodes > 0 {
		episodes = opts.episodes
	}

	logging.Info().
		Add(logging.Str("config", cfg.Name)).
		Add(logging.Int("episodes", episodes)).
		Add(logging.Str("source", cfg.Agent.Source)).
		Msg("starting batch")

	batch, err := runner.RunBatch(ctx, episodes)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(a.stdout, batch)
	}
	a.printSummary(cfg, batch.Summary)
	return nil
}

func (a *App) tracingOptions(tc config.TracingConfig) []observability.Option {
	opts := []observability.Option{
		observability.WithServiceVersion(Version),
	}
	switch observability.ExporterType(tc.Exporter) {
	case observability.ExporterStdout:
		// Spans go to stderr so stdout carries only the report.
		opts = append(opts, observability.WithStdoutTracing(a.stderr))
	case observability.ExporterOTLP:
		opts = append(opts, observability.WithTracing(observability.ExporterOTLP, tc.Endpoint))
		if tc.Insecure {
			opts = append(opts, observability.WithTracingInsecure())
		}
	default:
		opts = append(opts, observability.WithTracing(observability.ExporterNoop, ""))
	}
	if tc.SampleRate > 0 {
		opts = append(opts, observability.WithSampleRate(tc.SampleRate))
	}
	return opts
}

func (a *App) printSummary(cfg *config.EvalConfig, s application.Summary) {
	fmt.Fprintf(a.stdout, "Batch: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Episodes: %d\n", s.Episodes)
	fmt.Fprintf(a.stdout, "  Scored: %d\n", s.Scored)
	fmt.Fprintf(a.stdout, "  Completed without interruption: %d\n", s.Completed)
	fmt.Fprintf(a.stdout, "  Failed: %d\n", s.Failed)

	if len(s.Modes) == 0 {
		return
	}
	fmt.Fprintf(a.stdout, "\nModes:\n")
	for _, mode := range scoring.Modes() {
		m, ok := s.Modes[mode]
		if !ok {
			continue
		}
		fmt.Fprintf(a.stdout, "  %-8s episodes=%d gamma=%.4f soundness=%.4f\n",
			mode, m.Episodes, m.MeanGamma, m.MeanSoundness)
	}
}

// Package cli provides the beliefeval command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	beliefeval "github.com/felixgeelhaar/belief-eval"
	"github.com/felixgeelhaar/belief-eval/infrastructure/logging"
)

// Version information, overridable at build time.
var (
	Version   = beliefeval.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	logLevel  string
	logFormat string
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "beliefeval",
		Short: "Belief scoring harness for grape inspection plans",
		Long: `Belief scoring harness for grape inspection plans.

beliefeval simulates STRIPS plans from the grape inspection domain and
scores an agent's claimed world state against the true state at the current
step, every past step, or every future step of the plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.logLevel != "" && !logging.ValidLevel(app.logLevel) {
				return fmt.Errorf("invalid log level: %s", app.logLevel)
			}
			app.initLogging(app.logLevel, app.logFormat)
			return nil
		},
	}

	app.root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	app.root.PersistentFlags().StringVar(&app.logFormat, "log-format", "", "Log format (console, json)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newValidateCmd(),
		app.newSimulateCmd(),
		app.newScoreCmd(),
		app.newSampleCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// initLogging replaces the global logger, writing to the app's stderr.
// Empty values fall back to the defaults.
func (a *App) initLogging(level, format string) {
	cfg := logging.DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	if format != "" {
		cfg.Format = format
	}
	cfg.Output = a.stderr
	logging.Init(cfg)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "beliefeval version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}

package application

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/belief-eval/domain/config"
	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	domainmw "github.com/felixgeelhaar/belief-eval/domain/middleware"
	"github.com/felixgeelhaar/belief-eval/domain/plan"
	"github.com/felixgeelhaar/belief-eval/domain/schema"
	"github.com/felixgeelhaar/belief-eval/domain/scoring"
	"github.com/felixgeelhaar/belief-eval/domain/transition"
	configloader "github.com/felixgeelhaar/belief-eval/infrastructure/config"
	infrastructuremw "github.com/felixgeelhaar/belief-eval/infrastructure/middleware"
	"github.com/felixgeelhaar/belief-eval/infrastructure/resilience"
	"github.com/felixgeelhaar/belief-eval/infrastructure/telemetry"
)

// Inputs are the static files an evaluation reads.
type Inputs struct {
	Table       *schema.Table
	GroundTruth plan.Plan
	// Claims is nil when no claims file is configured.
	Claims fluent.State
}

// LoadInputs reads the schema table, plan and optional claims named by cfg.
func LoadInputs(cfg *config.EvalConfig) (*Inputs, error) {
	table, err := configloader.LoadSchemaTable(cfg.Inputs.Schema)
	if err != nil {
		return nil, fmt.Errorf("load schema table: %w", err)
	}
	gt, err := configloader.LoadPlan(cfg.Inputs.Plan)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	in := &Inputs{Table: table, GroundTruth: gt}
	if cfg.Inputs.Claims != "" {
		in.Claims, err = configloader.LoadClaims(cfg.Inputs.Claims)
		if err != nil {
			return nil, fmt.Errorf("load claims: %w", err)
		}
	}
	return in, nil
}

// NewEngineFromConfig builds a transition engine for the configured scenario.
func NewEngineFromConfig(cfg *config.EvalConfig, table *schema.Table) (*transition.Engine, error) {
	var opts []transition.Option
	if len(cfg.Scenario.InitialState) > 0 {
		opts = append(opts, transition.WithInitialState(fluent.ParseState(cfg.Scenario.InitialState...)))
	}
	switch cfg.Scenario.Resolver {
	case "", config.DefaultResolver:
	case "identity":
		opts = append(opts, transition.WithResolver(transition.Identity))
	default:
		return nil, fmt.Errorf("unknown resolver: %s", cfg.Scenario.Resolver)
	}
	return transition.NewEngine(table, opts...), nil
}

// ParseModes parses configured mode names.
func ParseModes(names []string) ([]scoring.Mode, error) {
	modes := make([]scoring.Mode, 0, len(names))
	for _, name := range names {
		mode, err := scoring.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

// NewBeliefSourceFromConfig builds the configured belief source wrapped in
// the resilience policies and the query middleware chain.
func NewBeliefSourceFromConfig(cfg *config.EvalConfig, engine *transition.Engine, in *Inputs, metrics telemetry.Metrics) (BeliefSource, error) {
	var source BeliefSource
	switch cfg.Agent.Source {
	case "", config.DefaultAgentSource:
		source = NewOracleBelief(engine, in.GroundTruth)
	case "static":
		if in.Claims == nil {
			return nil, errors.New("static belief source requires a claims file")
		}
		source = NewStaticBelief(in.Claims)
	default:
		return nil, fmt.Errorf("unknown belief source: %s", cfg.Agent.Source)
	}

	executor := resilience.NewExecutorWithOptions[fluent.State](
		resilience.WithTimeout(cfg.Agent.Timeout.Duration()),
		resilience.WithRetryAttempts(cfg.Agent.Retry.MaxAttempts),
		resilience.WithRetryDelay(cfg.Agent.Retry.InitialDelay.Duration()),
		resilience.WithBackoffMultiplier(cfg.Agent.Retry.Multiplier),
		resilience.WithMaxConcurrent(cfg.Agent.MaxConcurrent),
	)
	name := cfg.Agent.Source
	if name == "" {
		name = config.DefaultAgentSource
	}
	resilient := NewResilientBelief(name, source, executor, metrics)

	return NewChainedBelief(name, resilient, queryMiddleware(cfg)...), nil
}

// queryMiddleware returns the configured chain, outermost first: logging,
// then rate limiting, then claim validation.
func queryMiddleware(cfg *config.EvalConfig) []domainmw.Middleware {
	var chain []domainmw.Middleware
	if cfg.Agent.LogQueries {
		chain = append(chain, infrastructuremw.Logging(infrastructuremw.LoggingConfig{
			LogTranscript: true,
			LogClaim:      true,
		}))
	}
	if rl := cfg.Agent.RateLimit; rl.Rate > 0 {
		chain = append(chain, infrastructuremw.RateLimit(infrastructuremw.RateLimitConfig{
			Rate:  rl.Rate,
			Burst: rl.Burst,
			Scope: infrastructuremw.RateLimitScope(rl.Scope),
		}))
	}
	validation := infrastructuremw.DefaultValidationConfig()
	validation.MaxFluents = cfg.Agent.MaxClaimFluents
	return append(chain, infrastructuremw.Validation(validation))
}

// NewRunnerFromConfig wires a runner from configuration and loaded inputs.
func NewRunnerFromConfig(cfg *config.EvalConfig, in *Inputs, opts ...EvaluatorOption) (*Runner, error) {
	engine, err := NewEngineFromConfig(cfg, in.Table)
	if err != nil {
		return nil, err
	}
	modes, err := ParseModes(cfg.Scoring.Modes)
	if err != nil {
		return nil, err
	}

	evaluator := NewEvaluator(scoring.NewScorer(engine), opts...)
	source, err := NewBeliefSourceFromConfig(cfg, engine, in, evaluator.Metrics())
	if err != nil {
		return nil, err
	}

	samplerOpts := []SamplerOption{}
	if seed, ok := cfg.Sampler.SeedValue(); ok {
		samplerOpts = append(samplerOpts, WithSeed(seed))
	}
	sampler := NewSampler(cfg.Sampler.Question, cfg.Sampler.Probability(), samplerOpts...)

	return NewRunner(in.GroundTruth, sampler, source, evaluator,
		WithModes(modes...),
		WithConcurrency(cfg.Runner.Concurrency),
	), nil
}

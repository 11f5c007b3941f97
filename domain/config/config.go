// Package config provides domain models for evaluation configuration.
package config

import "time"

// EvalConfig is the complete configuration of an evaluation run.
type EvalConfig struct {
	// Name is a human-readable name for this evaluation.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the evaluation.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Inputs    InputsConfig    `json:"inputs" yaml:"inputs"`
	Scenario  ScenarioConfig  `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Scoring   ScoringConfig   `json:"scoring,omitempty" yaml:"scoring,omitempty"`
	Sampler   SamplerConfig   `json:"sampler,omitempty" yaml:"sampler,omitempty"`
	Runner    RunnerConfig    `json:"runner,omitempty" yaml:"runner,omitempty"`
	Agent     AgentConfig     `json:"agent,omitempty" yaml:"agent,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// InputsConfig names the static input files. Relative paths are resolved
// against the configuration file's directory by the loader.
type InputsConfig struct {
	// Schema is the action schema table (JSON or YAML).
	Schema string `json:"schema" yaml:"schema"`
	// Plan is the ground-truth plan, one action per line.
	Plan string `json:"plan" yaml:"plan"`
	// Claims is an optional claimed fluent set used by the static belief source.
	Claims string `json:"claims,omitempty" yaml:"claims,omitempty"`
}

// ScenarioConfig selects the simulation scenario.
type ScenarioConfig struct {
	// InitialState overrides the built-in grape inspection initial state.
	InitialState []string `json:"initial_state,omitempty" yaml:"initial_state,omitempty"`
	// Resolver selects the disambiguation strategy (grape, identity).
	Resolver string `json:"resolver,omitempty" yaml:"resolver,omitempty"`
}

// ScoringConfig selects the scoring modes.
type ScoringConfig struct {
	// Modes lists the modes to score (current, past, future).
	Modes []string `json:"modes,omitempty" yaml:"modes,omitempty"`
}

// SamplerConfig configures dialogue interruption sampling.
type SamplerConfig struct {
	// Question is asked of the agent when it is interrupted.
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	// QuestionProbability is the initial interruption probability. Unset
	// means DefaultQuestionProbability; an explicit 0 is kept.
	QuestionProbability *float64 `json:"question_probability,omitempty" yaml:"question_probability,omitempty"`
	// Seed seeds the random source. Unset picks a time-based seed; an
	// explicit 0 is a valid seed.
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	// Episodes is the number of episodes in a batch.
	Episodes int `json:"episodes,omitempty" yaml:"episodes,omitempty"`
}

// Probability returns the configured question probability, or the default
// when unset.
func (s SamplerConfig) Probability() float64 {
	if s.QuestionProbability == nil {
		return DefaultQuestionProbability
	}
	return *s.QuestionProbability
}

// SeedValue returns the configured seed and whether one is set.
func (s SamplerConfig) SeedValue() (int64, bool) {
	if s.Seed == nil {
		return 0, false
	}
	return *s.Seed, true
}

// RunnerConfig configures batch execution.
type RunnerConfig struct {
	// Concurrency is the number of episodes evaluated in parallel.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// AgentConfig configures the belief source and its resilience.
type AgentConfig struct {
	// Source selects the belief source (oracle, static).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Timeout bounds a single belief query.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Retry configures retries of failed belief queries.
	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
	// MaxConcurrent limits concurrent belief queries.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
	// RateLimit throttles belief queries. A zero rate disables it.
	RateLimit RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	// MaxClaimFluents rejects larger claims. Zero means no limit.
	MaxClaimFluents int `json:"max_claim_fluents,omitempty" yaml:"max_claim_fluents,omitempty"`
	// LogQueries logs every belief query and its claim.
	LogQueries bool `json:"log_queries,omitempty" yaml:"log_queries,omitempty"`
}

// RateLimitConfig configures belief query rate limiting.
type RateLimitConfig struct {
	Rate  int `json:"rate,omitempty" yaml:"rate,omitempty"`
	Burst int `json:"burst,omitempty" yaml:"burst,omitempty"`
	// Scope is global, per_source or per_episode.
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	// Exporter is the span exporter (noop, stdout, otlp).
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// SampleRate is the sampling ratio in [0, 1].
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// Default values.
const (
	DefaultQuestion            = "What is the current state of the world?"
	DefaultQuestionProbability = 0.25
	DefaultEpisodes            = 1
	DefaultConcurrency         = 4
	DefaultAgentSource         = "oracle"
	DefaultResolver            = "grape"
	DefaultTracingExporter     = "noop"
)

// ApplyDefaults fills unset fields with defaults.
func (c *EvalConfig) ApplyDefaults() {
	if len(c.Scoring.Modes) == 0 {
		c.Scoring.Modes = []string{"current", "past", "future"}
	}
	if c.Scenario.Resolver == "" {
		c.Scenario.Resolver = DefaultResolver
	}
	if c.Sampler.Question == "" {
		c.Sampler.Question = DefaultQuestion
	}
	if c.Sampler.QuestionProbability == nil {
		p := DefaultQuestionProbability
		c.Sampler.QuestionProbability = &p
	}
	if c.Sampler.Episodes == 0 {
		c.Sampler.Episodes = DefaultEpisodes
	}
	if c.Runner.Concurrency == 0 {
		c.Runner.Concurrency = DefaultConcurrency
	}
	if c.Agent.Source == "" {
		c.Agent.Source = DefaultAgentSource
	}
	if c.Agent.Timeout == 0 {
		c.Agent.Timeout = Duration(30 * time.Second)
	}
	if c.Agent.Retry.MaxAttempts == 0 {
		c.Agent.Retry.MaxAttempts = 3
	}
	if c.Agent.Retry.InitialDelay == 0 {
		c.Agent.Retry.InitialDelay = Duration(100 * time.Millisecond)
	}
	if c.Agent.Retry.Multiplier == 0 {
		c.Agent.Retry.Multiplier = 2.0
	}
	if c.Agent.MaxConcurrent == 0 {
		c.Agent.MaxConcurrent = c.Runner.Concurrency
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Telemetry.Tracing.Exporter == "" {
		c.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if c.Telemetry.Tracing.SampleRate == 0 {
		c.Telemetry.Tracing.SampleRate = 1.0
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

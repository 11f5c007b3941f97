package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates evaluation configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *EvalConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateScenario(config)
	v.validateScoring(config)
	v.validateSampler(config)
	v.validateAgent(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *EvalConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
	if config.Inputs.Schema == "" {
		v.addError("inputs.schema", "schema path is required")
	}
	if config.Inputs.Plan == "" {
		v.addError("inputs.plan", "plan path is required")
	}
}

func (v *Validator) validateScenario(config *EvalConfig) {
	switch config.Scenario.Resolver {
	case "", "grape", "identity":
	default:
		v.addError("scenario.resolver", fmt.Sprintf("unknown resolver: %s", config.Scenario.Resolver))
	}
}

func (v *Validator) validateScoring(config *EvalConfig) {
	valid := map[string]bool{
		"current": true, "current_action": true,
		"past": true, "past_actions": true,
		"future": true, "future_actions": true,
	}
	for i, mode := range config.Scoring.Modes {
		if !valid[strings.ToLower(mode)] {
			v.addError(fmt.Sprintf("scoring.modes[%d]", i), fmt.Sprintf("invalid mode: %s", mode))
		}
	}
}

func (v *Validator) validateSampler(config *EvalConfig) {
	if p := config.Sampler.Probability(); p < 0 || p > 1 {
		v.addError("sampler.question_probability", "question_probability must be between 0 and 1")
	}
	if config.Sampler.Episodes < 0 {
		v.addError("sampler.episodes", "episodes must be non-negative")
	}
	if config.Runner.Concurrency < 0 {
		v.addError("runner.concurrency", "concurrency must be non-negative")
	}
}

func (v *Validator) validateAgent(config *EvalConfig) {
	switch config.Agent.Source {
	case "", "oracle":
	case "static":
		if config.Inputs.Claims == "" {
			v.addError("inputs.claims", "claims path is required for the static belief source")
		}
	default:
		v.addError("agent.source", fmt.Sprintf("unknown belief source: %s", config.Agent.Source))
	}
	if config.Agent.Timeout < 0 {
		v.addError("agent.timeout", "timeout must be non-negative")
	}
	if config.Agent.Retry.MaxAttempts < 0 {
		v.addError("agent.retry.max_attempts", "max_attempts must be non-negative")
	}
	if config.Agent.MaxConcurrent < 0 {
		v.addError("agent.max_concurrent", "max_concurrent must be non-negative")
	}
	if config.Agent.MaxClaimFluents < 0 {
		v.addError("agent.max_claim_fluents", "max_claim_fluents must be non-negative")
	}

	rl := config.Agent.RateLimit
	if rl.Rate < 0 {
		v.addError("agent.rate_limit.rate", "rate must be non-negative")
	}
	if rl.Burst < 0 {
		v.addError("agent.rate_limit.burst", "burst must be non-negative")
	}
	switch rl.Scope {
	case "", "global", "per_source", "per_episode":
	default:
		v.addError("agent.rate_limit.scope", fmt.Sprintf("unknown rate limit scope: %s", rl.Scope))
	}
}

func (v *Validator) validateTelemetry(config *EvalConfig) {
	tracing := config.Telemetry.Tracing
	switch tracing.Exporter {
	case "", "noop", "stdout":
	case "otlp":
		if tracing.Endpoint == "" {
			v.addError("telemetry.tracing.endpoint", "endpoint is required for the otlp exporter")
		}
	default:
		v.addError("telemetry.tracing.exporter", fmt.Sprintf("unknown exporter: %s", tracing.Exporter))
	}
	if tracing.SampleRate < 0 || tracing.SampleRate > 1 {
		v.addError("telemetry.tracing.sample_rate", "sample_rate must be between 0 and 1")
	}
}

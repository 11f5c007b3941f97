package middleware

import (
	"context"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/middleware"
	"github.com/felixgeelhaar/belief-eval/infrastructure/logging"
)

// RateLimitScope defines the scope for rate limiting.
type RateLimitScope string

const (
	// ScopeGlobal applies rate limiting across all episodes and sources.
	ScopeGlobal RateLimitScope = "global"
	// ScopePerSource applies rate limiting per belief source.
	ScopePerSource RateLimitScope = "per_source"
	// ScopePerEpisode applies rate limiting per episode.
	ScopePerEpisode RateLimitScope = "per_episode"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Limiter is the rate limiter to use.
	// If nil, a default limiter will be created with Rate and Burst.
	Limiter ratelimit.RateLimiter

	// Scope determines how rate limiting keys are generated.
	// Default is ScopeGlobal.
	Scope RateLimitScope

	// Rate is the number of tokens added per interval.
	// Only used if Limiter is nil.
	Rate int

	// Burst is the maximum number of tokens (bucket capacity).
	// Only used if Limiter is nil.
	Burst int

	// OnLimitExceeded is called when a query is rate limited.
	OnLimitExceeded func(ctx context.Context, req *middleware.Request)
}

// DefaultRateLimitConfig returns a default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Scope: ScopeGlobal,
		Rate:  100,
		Burst: 100,
	}
}

// RateLimit returns middleware that enforces rate limits on belief queries
// using fortify's token bucket limiter.
func RateLimit(cfg RateLimitConfig) middleware.Middleware {
	limiter := cfg.Limiter
	if limiter == nil {
		rate := cfg.Rate
		if rate <= 0 {
			rate = 100
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = rate
		}
		limiter = ratelimit.New(&ratelimit.Config{
			Rate:  rate,
			Burst: burst,
		})
	}

	scope := cfg.Scope
	if scope == "" {
		scope = ScopeGlobal
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *middleware.Request) (fluent.State, error) {
			key := rateLimitKey(scope, req)

			if !limiter.Allow(ctx, key) {
				logging.Warn().
					Add(logging.EpisodeID(req.EpisodeID)).
					Add(logging.Str("source", req.Source)).
					Add(logging.Str("scope", string(scope))).
					Add(logging.Str("key", key)).
					Msg("rate limit exceeded")

				if cfg.OnLimitExceeded != nil {
					cfg.OnLimitExceeded(ctx, req)
				}
				return nil, middleware.ErrRateLimitExceeded
			}

			return next(ctx, req)
		}
	}
}

func rateLimitKey(scope RateLimitScope, req *middleware.Request) string {
	switch scope {
	case ScopePerSource:
		return req.Source
	case ScopePerEpisode:
		return req.EpisodeID
	default:
		return "global"
	}
}

// Package middleware provides pre-built belief query middleware.
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/middleware"
	"github.com/felixgeelhaar/belief-eval/infrastructure/logging"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// LogTranscript logs the dialogue transcript shown to the agent (may be large).
	LogTranscript bool
	// LogClaim logs the claimed fluents.
	LogClaim bool
}

// Logging returns middleware that logs belief queries.
func Logging(cfg LoggingConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *middleware.Request) (fluent.State, error) {
			start := time.Now()

			entry := logging.Debug().
				Add(logging.EpisodeID(req.EpisodeID)).
				Add(logging.Str("source", req.Source)).
				Add(logging.Steps(len(req.PlanSoFar)))
			if cfg.LogTranscript && len(req.Transcript) > 0 {
				entry = entry.Add(logging.Str("transcript", truncate(strings.Join(req.Transcript, "; "), 500)))
			}
			entry.Msg("querying belief source")

			claim, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logging.Error().
					Add(logging.EpisodeID(req.EpisodeID)).
					Add(logging.Str("source", req.Source)).
					Add(logging.ErrorField(err)).
					Add(logging.Duration(duration)).
					Msg("belief query failed")
				return claim, err
			}

			logEntry := logging.Info().
				Add(logging.EpisodeID(req.EpisodeID)).
				Add(logging.Str("source", req.Source)).
				Add(logging.Int("fluents", claim.Len())).
				Add(logging.Duration(duration))
			if cfg.LogClaim {
				logEntry = logEntry.Add(logging.Str("claim", truncate(strings.Join(claim.Strings(), "; "), 500)))
			}
			logEntry.Msg("belief query answered")

			return claim, nil
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

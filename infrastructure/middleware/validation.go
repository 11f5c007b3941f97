package middleware

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/middleware"
)

// ValidationConfig configures the claim validation middleware.
type ValidationConfig struct {
	// RejectEmpty rejects claims with no fluents, which cannot be scored.
	RejectEmpty bool

	// MaxFluents rejects claims larger than this. Zero means no limit.
	MaxFluents int
}

// DefaultValidationConfig returns the default claim validation.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		RejectEmpty: true,
	}
}

// Validation returns middleware that checks the claim a belief source
// answers with before it reaches the scorer.
func Validation(cfg ValidationConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *middleware.Request) (fluent.State, error) {
			claim, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			if cfg.RejectEmpty && claim.Len() == 0 {
				return nil, fmt.Errorf("%w: source %s", middleware.ErrEmptyBelief, req.Source)
			}
			if cfg.MaxFluents > 0 && claim.Len() > cfg.MaxFluents {
				return nil, fmt.Errorf("%w: %d > %d", middleware.ErrBeliefTooLarge, claim.Len(), cfg.MaxFluents)
			}
			return claim, nil
		}
	}
}

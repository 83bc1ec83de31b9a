package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config is one call site's rate limit budget. FailOpen is a required,
// visible field rather than a default: every site states what happens to
// its traffic when the counter store is unreachable.
type Config struct {
	Prefix      string
	Window      time.Duration
	MaxRequests int64

	// FailOpen admits requests when the store is down. Set it on
	// high-traffic, low-risk paths; leave it false where an admitted
	// request spends money or hits an abuse-sensitive endpoint.
	FailOpen bool
}

// Denial is a ready-to-render refusal. RetryAfter is the remaining window,
// suitable for a Retry-After header.
type Denial struct {
	Message    string
	Limit      int64
	RetryAfter time.Duration
}

// Require checks one request against cfg and returns nil when the caller
// may proceed. Unlike Check it never returns an error: a store failure is
// folded into cfg.FailOpen, so call sites handle exactly one shape.
func (l *Limiter) Require(ctx context.Context, cfg Config, identifier string) *Denial {
	result, ttl, err := l.check(ctx, cfg.Prefix, identifier, cfg.Window, cfg.MaxRequests)
	if err != nil {
		if cfg.FailOpen {
			l.logger.Warn("rate limit store unavailable, admitting request",
				zap.String("prefix", cfg.Prefix),
				zap.Error(err),
			)

			return nil
		}

		l.logger.Warn("rate limit store unavailable, refusing request",
			zap.String("prefix", cfg.Prefix),
			zap.Error(err),
		)

		return &Denial{
			Message:    "rate limit check unavailable",
			Limit:      cfg.MaxRequests,
			RetryAfter: cfg.Window,
		}
	}

	if result.Allowed {
		return nil
	}

	return &Denial{
		Message:    fmt.Sprintf("rate limit exceeded: %d requests per %s", cfg.MaxRequests, cfg.Window),
		Limit:      cfg.MaxRequests,
		RetryAfter: ttl,
	}
}

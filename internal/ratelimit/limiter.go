// Package ratelimit enforces fixed-window request budgets on top of a
// counter store.
//
// A window opens on the first request of a (prefix, identifier) pair and
// runs for a fixed duration; every request inside it increments the same
// counter. The window does not slide: a client can spend a full budget at
// the tail of one window and another at the head of the next, so the
// worst-case burst is twice the configured maximum.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/serroba/quotaguard/internal/counter"
	"go.uber.org/zap"
)

// Result is the outcome of a single rate limit check.
type Result struct {
	Allowed   bool
	Remaining int64
}

// Limiter answers whether an identifier may perform a named action right
// now. Budgets live at the call site, not in the limiter, so one instance
// serves every prefix in the process.
type Limiter struct {
	counters counter.Store
	logger   *zap.Logger
}

// NewLimiter creates a rate limiter over the given counter store.
func NewLimiter(counters counter.Store, logger *zap.Logger) *Limiter {
	return &Limiter{
		counters: counters,
		logger:   logger,
	}
}

// Check records one request against the window and reports whether it fit
// the budget. The counter tracks attempts, not admissions: a denied request
// still consumed an increment. Store errors are returned as-is; Check takes
// no fail-open or fail-closed stance, that policy belongs to Require.
func (l *Limiter) Check(ctx context.Context, prefix, identifier string, window time.Duration, maxRequests int64) (Result, error) {
	result, _, err := l.check(ctx, prefix, identifier, window, maxRequests)

	return result, err
}

func (l *Limiter) check(ctx context.Context, prefix, identifier string, window time.Duration, maxRequests int64) (Result, time.Duration, error) {
	count, ttl, err := l.counters.IncrBy(ctx, requestKey(prefix, identifier), 1, window)
	if err != nil {
		checksTotal.WithLabelValues(prefix, "error").Inc()

		return Result{}, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	result := Result{
		Allowed:   count <= maxRequests,
		Remaining: max(0, maxRequests-count),
	}

	outcome := "allowed"
	if !result.Allowed {
		outcome = "denied"
	}
	checksTotal.WithLabelValues(prefix, outcome).Inc()

	return result, ttl, nil
}

// requestKey carries no window component. The counter's TTL is the window,
// so a prefix whose budget changes mid-flight finishes its open window
// under the old duration first.
func requestKey(prefix, identifier string) string {
	return fmt.Sprintf("rate-%s#%s", prefix, identifier)
}

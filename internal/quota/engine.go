// Package quota enforces daily resource ceilings per account tier across
// three resource classes: stored video seconds, photo uploads, and
// ephemeral-video ("peak") uploads.
//
// Usage follows a two-phase protocol: Check before committing to expensive
// work, Deduct after the work has durably succeeded. The two phases are
// deliberately independent calls; see Deduct for the bounded overshoot
// this implies.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/serroba/quotaguard/internal/account"
	"github.com/serroba/quotaguard/internal/counter"
	"go.uber.org/zap"
)

const (
	// daySeconds is the calendar partition every usage counter lives in.
	daySeconds = 86400
	// expiryBuffer keeps a day's counter alive slightly past midnight so a
	// write that computed its expiry just before the boundary cannot land
	// on an already-expired key.
	expiryBuffer = 5 * time.Minute
)

// Decision is the outcome of a quota check. Remaining and Limit are nil for
// unmetered accounts; nil is the only unlimited sentinel and is never
// approximated with a large finite number.
type Decision struct {
	Allowed   bool
	Remaining *int64
	Limit     *int64
}

// Usage aggregates one identifier's recorded consumption for the current
// day.
type Usage struct {
	VideoSeconds int64
	PhotoCount   int64
	PeakCount    int64
}

// Engine answers whether an identifier has exhausted its daily allowance of
// a resource. It holds no state of its own: the counter store is the only
// shared resource, and the engine is a pure function of stored counts plus
// the tier limits.
type Engine struct {
	counters counter.Store
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the engine's clock. Tests use it to cross day
// boundaries without waiting.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a quota engine over the given counter store.
func NewEngine(counters counter.Store, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		counters: counters,
		logger:   logger,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Check reports whether identifier may consume amount more units of the
// resource today. It never mutates stored usage, so callers can probe it
// speculatively before accepting an upload. A store failure is logged and
// read as zero usage: the engine under-counts during an outage rather than
// turning a storage blip into a denial of service.
func (e *Engine) Check(ctx context.Context, identifier string, acct account.Type, res Resource, amount int64) Decision {
	limit := LimitsFor(acct).DailyCeiling(res)
	if limit == nil {
		checksTotal.WithLabelValues(string(res), "unlimited").Inc()

		return Decision{Allowed: true}
	}

	used := e.usedToday(ctx, identifier, res)
	remaining := max(0, *limit-used)
	allowed := used+amount <= *limit

	result := "allowed"
	if !allowed {
		result = "denied"
	}
	checksTotal.WithLabelValues(string(res), result).Inc()

	return Decision{Allowed: allowed, Remaining: &remaining, Limit: limit}
}

// Deduct records that identifier consumed amount units of the resource.
// Call it only after the guarded action has already succeeded; failures are
// logged and swallowed, losing that increment instead of failing a request
// whose work is already done.
//
// Check and Deduct are separated by arbitrary-duration work, so concurrent
// requests from one identifier can pass Check before any of them Deducts.
// The resulting overshoot is bounded by the identifier's in-flight
// concurrency and is accepted; no cross-request lock is taken.
func (e *Engine) Deduct(ctx context.Context, identifier string, res Resource, amount int64) {
	day := e.Day()
	expiresAt := time.Unix((day+1)*daySeconds, 0).Add(expiryBuffer)

	key := usageKey(res, identifier, day)
	if _, _, err := e.counters.IncrBy(ctx, key, amount, expiresAt.Sub(e.now())); err != nil {
		storeFailures.WithLabelValues("incr").Inc()
		e.logger.Error("quota deduction lost",
			zap.String("identifier", identifier),
			zap.String("resource", string(res)),
			zap.Int64("amount", amount),
			zap.Error(err),
		)

		return
	}

	deductedUnits.WithLabelValues(string(res)).Add(float64(amount))
}

// Usage returns today's recorded consumption across all three resource
// classes, for client-facing "remaining allowance" displays.
func (e *Engine) Usage(ctx context.Context, identifier string) Usage {
	return Usage{
		VideoSeconds: e.usedToday(ctx, identifier, ResourceVideo),
		PhotoCount:   e.usedToday(ctx, identifier, ResourcePhoto),
		PeakCount:    e.usedToday(ctx, identifier, ResourcePeak),
	}
}

func (e *Engine) usedToday(ctx context.Context, identifier string, res Resource) int64 {
	used, err := e.counters.Get(ctx, usageKey(res, identifier, e.Day()))
	if err != nil {
		storeFailures.WithLabelValues("get").Inc()
		e.logger.Warn("quota read failed, counting as zero",
			zap.String("identifier", identifier),
			zap.String("resource", string(res)),
			zap.Error(err),
		)

		return 0
	}

	return used
}

// Day partitions wall-clock time into calendar days. Tomorrow's requests
// address a fresh key, so usage resets with no cleanup job; the store's
// expiry reclaims yesterday's counters on its own.
func (e *Engine) Day() int64 {
	return e.now().Unix() / daySeconds
}

func usageKey(res Resource, identifier string, day int64) string {
	return fmt.Sprintf("quota-%s#%s#%d", res, identifier, day)
}

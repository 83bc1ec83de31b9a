package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/quotaguard/internal/ratelimit"
	"github.com/serroba/quotaguard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLimiterRequire(t *testing.T) {
	ctx := context.Background()

	cfg := ratelimit.Config{
		Prefix:      "upload",
		Window:      time.Minute,
		MaxRequests: 2,
	}

	t.Run("returns nil while the budget lasts", func(t *testing.T) {
		counters := store.NewMemoryCounters()
		defer counters.Close()

		limiter := ratelimit.NewLimiter(counters, zap.NewNop())

		for range 2 {
			assert.Nil(t, limiter.Require(ctx, cfg, "client-1"))
		}
	})

	t.Run("returns a denial once the budget is spent", func(t *testing.T) {
		counters := store.NewMemoryCounters()
		defer counters.Close()

		limiter := ratelimit.NewLimiter(counters, zap.NewNop())

		for range 2 {
			require.Nil(t, limiter.Require(ctx, cfg, "client-1"))
		}

		denial := limiter.Require(ctx, cfg, "client-1")

		require.NotNil(t, denial)
		assert.Equal(t, int64(2), denial.Limit)
		assert.Contains(t, denial.Message, "rate limit exceeded")
		assert.Greater(t, denial.RetryAfter, time.Duration(0))
		assert.LessOrEqual(t, denial.RetryAfter, time.Minute)
	})

	t.Run("fail-open admits requests when the store is down", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(failingCounters{}, zap.NewNop())

		open := cfg
		open.FailOpen = true

		assert.Nil(t, limiter.Require(ctx, open, "client-1"))
	})

	t.Run("fail-closed refuses requests when the store is down", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(failingCounters{}, zap.NewNop())

		denial := limiter.Require(ctx, cfg, "client-1")

		require.NotNil(t, denial)
		assert.Equal(t, cfg.Window, denial.RetryAfter)
		assert.Contains(t, denial.Message, "unavailable")
	})
}

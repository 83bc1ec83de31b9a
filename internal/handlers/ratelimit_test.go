package handlers_test

import (
	"context"
	"testing"

	"github.com/serroba/quotaguard/internal/counter"
	"github.com/serroba/quotaguard/internal/handlers"
	"github.com/serroba/quotaguard/internal/ratelimit"
	"github.com/serroba/quotaguard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRateLimitHandler(counters counter.Store) *handlers.RateLimitHandler {
	return handlers.NewRateLimitHandler(
		ratelimit.NewLimiter(counters, zap.NewNop()),
		zap.NewNop(),
	)
}

func rateLimitRequest(prefix, identifier string, windowSeconds, maxRequests int64) *handlers.CheckRateLimitRequest {
	req := &handlers.CheckRateLimitRequest{}
	req.Body.Prefix = prefix
	req.Body.Identifier = identifier
	req.Body.WindowSeconds = windowSeconds
	req.Body.MaxRequests = maxRequests

	return req
}

func TestCheckRateLimit(t *testing.T) {
	t.Run("allows requests under the budget", func(t *testing.T) {
		handler := newTestRateLimitHandler(store.NewMemoryCounters())

		for i := range 3 {
			resp, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 60, 5))

			require.NoError(t, err)
			assert.True(t, resp.Body.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, int64(4-i), resp.Body.Remaining)
		}
	})

	t.Run("denies requests over the budget", func(t *testing.T) {
		handler := newTestRateLimitHandler(store.NewMemoryCounters())

		for range 2 {
			_, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 60, 2))
			require.NoError(t, err)
		}

		resp, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 60, 2))

		require.NoError(t, err)
		assert.False(t, resp.Body.Allowed)
		assert.Equal(t, int64(0), resp.Body.Remaining)
	})

	t.Run("budgets are independent per prefix", func(t *testing.T) {
		handler := newTestRateLimitHandler(store.NewMemoryCounters())

		_, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 60, 1))
		require.NoError(t, err)

		resp, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("search", testIdentifier, 60, 1))

		require.NoError(t, err)
		assert.True(t, resp.Body.Allowed)
	})

	t.Run("returns 400 when prefix or identifier missing", func(t *testing.T) {
		handler := newTestRateLimitHandler(store.NewMemoryCounters())

		resp, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("", testIdentifier, 60, 5))

		assert.Nil(t, resp)
		assert.Error(t, err)

		resp, err = handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", "", 60, 5))

		assert.Nil(t, resp)
		assert.Error(t, err)
	})

	t.Run("returns 400 for non-positive window or budget", func(t *testing.T) {
		handler := newTestRateLimitHandler(store.NewMemoryCounters())

		resp, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 0, 5))

		assert.Nil(t, resp)
		assert.Error(t, err)

		resp, err = handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 60, 0))

		assert.Nil(t, resp)
		assert.Error(t, err)
	})

	t.Run("returns 500 when the counter store fails", func(t *testing.T) {
		handler := newTestRateLimitHandler(failingCounters{})

		resp, err := handler.CheckRateLimit(context.Background(), rateLimitRequest("upload", testIdentifier, 60, 5))

		assert.Nil(t, resp)
		assert.Error(t, err)
	})
}

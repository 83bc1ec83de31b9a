package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/quotaguard/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimitHandler exposes rate limit decisions to callers that enforce
// limits in their own request path. The caller owns the budget; this
// endpoint only counts and answers.
type RateLimitHandler struct {
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewRateLimitHandler creates a rate limit handler.
func NewRateLimitHandler(limiter *ratelimit.Limiter, logger *zap.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		limiter: limiter,
		logger:  logger,
	}
}

func (h *RateLimitHandler) CheckRateLimit(ctx context.Context, req *CheckRateLimitRequest) (*CheckRateLimitResponse, error) {
	if req.Body.Prefix == "" || req.Body.Identifier == "" {
		return nil, huma.Error400BadRequest("prefix and identifier are required")
	}

	if req.Body.WindowSeconds <= 0 || req.Body.MaxRequests <= 0 {
		return nil, huma.Error400BadRequest("windowSeconds and maxRequests must be positive")
	}

	window := time.Duration(req.Body.WindowSeconds) * time.Second

	result, err := h.limiter.Check(ctx, req.Body.Prefix, req.Body.Identifier, window, req.Body.MaxRequests)
	if err != nil {
		h.logger.Error("rate limit check failed",
			zap.String("prefix", req.Body.Prefix),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to check rate limit")
	}

	resp := &CheckRateLimitResponse{}
	resp.Body.Allowed = result.Allowed
	resp.Body.Remaining = result.Remaining

	return resp, nil
}

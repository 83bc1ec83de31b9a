package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/quotaguard/internal/audit"
	"github.com/serroba/quotaguard/internal/messaging"
	"github.com/serroba/quotaguard/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimit returns a huma middleware that enforces per-endpoint budgets.
// Endpoints configure their budget through operation metadata
// (ratelimit.MetadataKey); unannotated endpoints get defaultCfg. Clients
// are keyed by a hash of IP and User-Agent.
//
// Denials are published as audit events; a lost event never blocks the
// denial response.
func RateLimit(
	api huma.API,
	limiter *ratelimit.Limiter,
	defaultCfg ratelimit.Config,
	publishDenied messaging.Publish[audit.DenialEvent],
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := defaultCfg

		if endpoint := ratelimit.GetEndpointConfig(ctx); endpoint != nil {
			if endpoint.Disabled {
				logger.Debug("rate limiting disabled for endpoint",
					zap.String("path", getOperationPath(ctx)),
					zap.String("method", ctx.Method()),
				)
				next(ctx)

				return
			}

			cfg = endpoint.Config
		}

		key := clientKey(ctx)

		denial := limiter.Require(ctx.Context(), cfg, key)
		if denial == nil {
			next(ctx)

			return
		}

		logger.Warn("rate limit denied",
			zap.String("path", getOperationPath(ctx)),
			zap.String("method", ctx.Method()),
			zap.String("prefix", cfg.Prefix),
			zap.String("client_ip", clientIP(ctx)),
		)

		event := &audit.DenialEvent{
			Source:     "ratelimit",
			Identifier: key,
			Scope:      cfg.Prefix,
			At:         time.Now(),
			ClientIP:   clientIP(ctx),
			UserAgent:  ctx.Header("User-Agent"),
		}
		if err := publishDenied(event); err != nil {
			logger.Error("failed to publish denial event",
				zap.String("prefix", cfg.Prefix),
				zap.Error(err),
			)
		}

		writeDenial(api, ctx, denial)
	}
}

// writeDenial renders a 429 with the draft IETF rate limit headers.
// RateLimit-Reset is the Unix timestamp of the window end; Retry-After is
// the same moment as a second count.
func writeDenial(api huma.API, ctx huma.Context, denial *ratelimit.Denial) {
	retryAfter := int(denial.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	ctx.SetHeader("RateLimit-Limit", strconv.FormatInt(denial.Limit, 10))
	ctx.SetHeader("RateLimit-Remaining", "0")
	ctx.SetHeader("RateLimit-Reset", strconv.FormatInt(time.Now().Add(denial.RetryAfter).Unix(), 10))
	ctx.SetHeader("Retry-After", strconv.Itoa(retryAfter))

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, denial.Message)
}

// getOperationPath extracts the path from the operation, if available.
func getOperationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}

// clientKey generates a unique key for rate limiting based on IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	// Check X-Forwarded-For header (may contain multiple IPs)
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to Host (which contains remote addr in Huma context)
	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}

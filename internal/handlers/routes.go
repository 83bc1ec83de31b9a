package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/quotaguard/internal/ratelimit"
)

// RegisterRoutes registers all quota and rate limit routes with per-endpoint
// rate limit configuration.
func RegisterRoutes(api huma.API, rateLimits *RateLimitHandler, quotas *QuotaHandler) {
	// POST /v1/ratelimit/check - Rate limit decision
	// Called once per upstream client request, so the budget is generous
	// and the path stays open during store outages.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/v1/ratelimit/check",
		Summary:     "Check a rate limit",
		Description: "Counts one attempt against the caller's fixed window and reports whether it fits the budget.",
		Tags:        []string{"Rate limits"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Config: ratelimit.Config{
					Prefix:      "ratelimit-check",
					Window:      time.Minute,
					MaxRequests: 600,
					FailOpen:    true,
				},
			},
		},
	}, rateLimits.CheckRateLimit)

	// POST /v1/quota/{identifier}/check - Quota decision
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/v1/quota/{identifier}/check",
		Summary:     "Check a quota",
		Description: "Reports whether the identifier may consume the given amount of a resource today. Consumes nothing.",
		Tags:        []string{"Quotas"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Config: ratelimit.Config{
					Prefix:      "quota-check",
					Window:      time.Minute,
					MaxRequests: 300,
					FailOpen:    true,
				},
			},
		},
	}, quotas.CheckQuota)

	// POST /v1/quota/{identifier}/deduct - Record consumption
	// Not rate limited: deductions follow actions that already passed
	// admission, and refusing one here would lose usage accounting.
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/v1/quota/{identifier}/deduct",
		Summary:       "Deduct quota",
		Description:   "Records consumption after the guarded action succeeded.",
		Tags:          []string{"Quotas"},
		DefaultStatus: http.StatusNoContent,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Disabled: true,
			},
		},
	}, quotas.DeductQuota)

	// GET /v1/quota/{identifier}/usage - Today's consumption
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/v1/quota/{identifier}/usage",
		Summary:     "Get today's usage",
		Description: "Returns the identifier's recorded consumption for the current day.",
		Tags:        []string{"Quotas"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Config: ratelimit.Config{
					Prefix:      "quota-usage",
					Window:      time.Minute,
					MaxRequests: 120,
					FailOpen:    true,
				},
			},
		},
	}, quotas.GetUsage)

	// GET /v1/quota/{identifier}/limits - Tier allowances
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/v1/quota/{identifier}/limits",
		Summary:     "Get tier limits",
		Description: "Returns the allowance profile for the identifier's account tier.",
		Tags:        []string{"Quotas"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Config: ratelimit.Config{
					Prefix:      "quota-limits",
					Window:      time.Minute,
					MaxRequests: 120,
					FailOpen:    true,
				},
			},
		},
	}, quotas.GetLimits)
}

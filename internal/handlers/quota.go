package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/quotaguard/internal/account"
	"github.com/serroba/quotaguard/internal/audit"
	"github.com/serroba/quotaguard/internal/messaging"
	"github.com/serroba/quotaguard/internal/quota"
	"go.uber.org/zap"
)

// QuotaHandler handles quota checks, deductions and usage reads.
type QuotaHandler struct {
	engine          *quota.Engine
	accounts        account.Lookup
	publishDeducted messaging.Publish[audit.DeductionEvent]
	publishDenied   messaging.Publish[audit.DenialEvent]
	logger          *zap.Logger
}

// NewQuotaHandler creates a quota handler.
func NewQuotaHandler(
	engine *quota.Engine,
	accounts account.Lookup,
	publishDeducted messaging.Publish[audit.DeductionEvent],
	publishDenied messaging.Publish[audit.DenialEvent],
	logger *zap.Logger,
) *QuotaHandler {
	return &QuotaHandler{
		engine:          engine,
		accounts:        accounts,
		publishDeducted: publishDeducted,
		publishDenied:   publishDenied,
		logger:          logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for audit events.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	RequestID string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// accountType resolves the tier for a request, preferring an explicit
// override from the request body. A failed lookup falls back to the metered
// free tier: an account-store outage keeps identifiers on their finite
// allowance instead of granting an unlimited one.
func (h *QuotaHandler) accountType(ctx context.Context, identifier, override string) account.Type {
	if override != "" {
		return account.Type(override)
	}

	acct, err := h.accounts.AccountType(ctx, identifier)
	if err != nil {
		h.logger.Warn("account lookup failed, treating as free tier",
			zap.String("identifier", identifier),
			zap.Error(err),
		)

		return account.TypeFree
	}

	return acct
}

func (h *QuotaHandler) CheckQuota(ctx context.Context, req *CheckQuotaRequest) (*CheckQuotaResponse, error) {
	res := quota.Resource(req.Body.Resource)
	if !res.Valid() {
		return nil, huma.Error400BadRequest("invalid resource: must be 'video', 'photo' or 'peak'")
	}

	if req.Body.Amount <= 0 {
		return nil, huma.Error400BadRequest("amount must be positive")
	}

	acct := h.accountType(ctx, req.Identifier, req.Body.AccountType)
	decision := h.engine.Check(ctx, req.Identifier, acct, res, req.Body.Amount)

	if !decision.Allowed {
		meta := RequestMetaFromContext(ctx)
		event := &audit.DenialEvent{
			Source:     "quota",
			Identifier: req.Identifier,
			Scope:      string(res),
			At:         time.Now(),
			ClientIP:   meta.ClientIP,
			UserAgent:  meta.UserAgent,
		}

		if err := h.publishDenied(event); err != nil {
			h.logger.Error("failed to publish denial event",
				zap.String("identifier", req.Identifier),
				zap.Error(err),
			)
		}
	}

	resp := &CheckQuotaResponse{}
	resp.Body.Allowed = decision.Allowed
	resp.Body.Remaining = decision.Remaining
	resp.Body.Limit = decision.Limit

	return resp, nil
}

func (h *QuotaHandler) DeductQuota(ctx context.Context, req *DeductQuotaRequest) (*DeductQuotaResponse, error) {
	res := quota.Resource(req.Body.Resource)
	if !res.Valid() {
		return nil, huma.Error400BadRequest("invalid resource: must be 'video', 'photo' or 'peak'")
	}

	if req.Body.Amount <= 0 {
		return nil, huma.Error400BadRequest("amount must be positive")
	}

	h.engine.Deduct(ctx, req.Identifier, res, req.Body.Amount)

	meta := RequestMetaFromContext(ctx)
	event := &audit.DeductionEvent{
		Identifier: req.Identifier,
		Resource:   string(res),
		Amount:     req.Body.Amount,
		Day:        h.engine.Day(),
		DeductedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
	}

	if err := h.publishDeducted(event); err != nil {
		h.logger.Error("failed to publish deduction event",
			zap.String("identifier", req.Identifier),
			zap.Error(err),
		)
	}

	return &DeductQuotaResponse{}, nil
}

func (h *QuotaHandler) GetUsage(ctx context.Context, req *GetUsageRequest) (*GetUsageResponse, error) {
	usage := h.engine.Usage(ctx, req.Identifier)

	resp := &GetUsageResponse{}
	resp.Body.VideoSecondsUsed = usage.VideoSeconds
	resp.Body.PhotoCountUsed = usage.PhotoCount
	resp.Body.PeakCountUsed = usage.PeakCount

	return resp, nil
}

func (h *QuotaHandler) GetLimits(ctx context.Context, req *GetLimitsRequest) (*GetLimitsResponse, error) {
	acct := h.accountType(ctx, req.Identifier, req.AccountType)
	limits := quota.LimitsFor(acct)

	resp := &GetLimitsResponse{}
	resp.Body.AccountType = string(acct)
	resp.Body.DailyVideoSeconds = limits.DailyVideoSeconds
	resp.Body.DailyPhotoCount = limits.DailyPhotoCount
	resp.Body.DailyPeakCount = limits.DailyPeakCount
	resp.Body.MaxVideoSeconds = limits.MaxVideoSeconds
	resp.Body.MaxUploadBytes = limits.MaxUploadBytes
	resp.Body.Renditions = limits.Renditions

	return resp, nil
}

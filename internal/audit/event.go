// Package audit defines the usage events emitted by the quota and rate
// limit paths, and the store that persists them. Events are published
// fire-and-forget: losing one costs an audit row, never a request.
package audit

import "time"

const (
	// TopicQuotaDeducted carries DeductionEvent payloads.
	TopicQuotaDeducted = "quota.deducted"
	// TopicLimitDenied carries DenialEvent payloads.
	TopicLimitDenied = "limit.denied"
)

// DeductionEvent records one successful quota deduction.
type DeductionEvent struct {
	Identifier string    `json:"identifier"`
	Resource   string    `json:"resource"`
	Amount     int64     `json:"amount"`
	Day        int64     `json:"day"`
	DeductedAt time.Time `json:"deductedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
}

// DenialEvent records a refused request. Source says which limiter refused
// it ("ratelimit" or "quota"); Scope is the rate limit prefix or the quota
// resource respectively.
type DenialEvent struct {
	Source     string    `json:"source"`
	Identifier string    `json:"identifier"`
	Scope      string    `json:"scope"`
	At         time.Time `json:"at"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
}

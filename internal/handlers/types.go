package handlers

// CheckRateLimitRequest is the request body for a rate limit decision.
type CheckRateLimitRequest struct {
	Body struct {
		Prefix        string `doc:"Key family the counter belongs to"  example:"upload"  json:"prefix"`
		Identifier    string `doc:"Caller the budget applies to"       example:"user-42" json:"identifier"`
		WindowSeconds int64  `doc:"Window length in seconds"           example:"60"      json:"windowSeconds"`
		MaxRequests   int64  `doc:"Requests allowed per window"        example:"100"     json:"maxRequests"`
	}
}

// CheckRateLimitResponse is the outcome of a rate limit decision. The
// attempt is already counted, whether or not it was allowed.
type CheckRateLimitResponse struct {
	Body struct {
		Allowed   bool  `doc:"Whether the request fits the current window" json:"allowed"`
		Remaining int64 `doc:"Requests left in the current window"         example:"99" json:"remaining"`
	}
}

// CheckQuotaRequest asks whether an identifier may consume more of a
// resource today. The check consumes nothing.
type CheckQuotaRequest struct {
	Identifier string `doc:"Account identifier" example:"user-42" path:"identifier"`
	Body       struct {
		Resource    string `doc:"Resource class: video, photo or peak"                 example:"video" json:"resource"`
		Amount      int64  `doc:"Units to consume, defaults to a single unit"          default:"1" example:"30" json:"amount"`
		AccountType string `doc:"Tier override; resolved from account data when empty" example:"free" json:"accountType,omitempty"`
	}
}

// CheckQuotaResponse is the outcome of a quota decision. Remaining and limit
// are null for unmetered tiers.
type CheckQuotaResponse struct {
	Body struct {
		Allowed   bool   `doc:"Whether the amount fits today's ceiling"  json:"allowed"`
		Remaining *int64 `doc:"Units left today; null when unlimited"    example:"270" json:"remaining"`
		Limit     *int64 `doc:"Daily ceiling; null when unlimited"       example:"300" json:"limit"`
	}
}

// DeductQuotaRequest records consumption after the guarded action has
// succeeded.
type DeductQuotaRequest struct {
	Identifier string `doc:"Account identifier" example:"user-42" path:"identifier"`
	Body       struct {
		Resource string `doc:"Resource class: video, photo or peak" example:"video" json:"resource"`
		Amount   int64  `doc:"Units actually consumed"              example:"30"    json:"amount"`
	}
}

// DeductQuotaResponse is empty: a successful deduction returns 204 No
// Content.
type DeductQuotaResponse struct{}

// GetUsageRequest asks for an identifier's recorded consumption today.
type GetUsageRequest struct {
	Identifier string `doc:"Account identifier" example:"user-42" path:"identifier"`
}

// GetUsageResponse reports today's recorded consumption per resource class.
type GetUsageResponse struct {
	Body struct {
		VideoSecondsUsed int64 `doc:"Video seconds recorded today" example:"120" json:"videoSecondsUsed"`
		PhotoCountUsed   int64 `doc:"Photos recorded today"        example:"12"  json:"photoCountUsed"`
		PeakCountUsed    int64 `doc:"Peaks recorded today"         example:"3"   json:"peakCountUsed"`
	}
}

// GetLimitsRequest asks for the allowance profile of an identifier's tier.
type GetLimitsRequest struct {
	Identifier  string `doc:"Account identifier"                                   example:"user-42" path:"identifier"`
	AccountType string `doc:"Tier override; resolved from account data when empty" example:"pro"     query:"accountType"`
}

// GetLimitsResponse reports the tier's allowances. Daily ceilings are null
// when unlimited; per-item caps are finite for every tier.
type GetLimitsResponse struct {
	Body struct {
		AccountType       string `doc:"Resolved account tier"                              example:"free"      json:"accountType"`
		DailyVideoSeconds *int64 `doc:"Video seconds allowed per day; null when unlimited" example:"300"       json:"dailyVideoSeconds"`
		DailyPhotoCount   *int64 `doc:"Photos allowed per day; null when unlimited"        example:"50"        json:"dailyPhotoCount"`
		DailyPeakCount    *int64 `doc:"Peaks allowed per day; null when unlimited"         example:"10"        json:"dailyPeakCount"`
		MaxVideoSeconds   int64  `doc:"Longest accepted video in seconds"                  example:"60"        json:"maxVideoSeconds"`
		MaxUploadBytes    int64  `doc:"Largest accepted upload in bytes"                   example:"104857600" json:"maxUploadBytes"`
		Renditions        int    `doc:"Transcode renditions produced per video"            example:"2"         json:"renditions"`
	}
}

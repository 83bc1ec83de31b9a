package quota

import "github.com/serroba/quotaguard/internal/account"

// Resource identifies one of the daily-metered resource classes.
type Resource string

const (
	// ResourceVideo counts seconds of stored video.
	ResourceVideo Resource = "video"
	// ResourcePhoto counts photo uploads.
	ResourcePhoto Resource = "photo"
	// ResourcePeak counts ephemeral-video uploads.
	ResourcePeak Resource = "peak"
)

// Resources lists every metered resource class.
var Resources = []Resource{ResourceVideo, ResourcePhoto, ResourcePeak}

// Valid reports whether r names a known resource class.
func (r Resource) Valid() bool {
	switch r {
	case ResourceVideo, ResourcePhoto, ResourcePeak:
		return true
	default:
		return false
	}
}

// Limits carries one tier's allowances. A nil daily ceiling means the
// resource is unlimited for that tier. Per-item caps are finite for every
// tier: a single upload is always bounded, premium accounts just get more.
type Limits struct {
	DailyVideoSeconds *int64
	DailyPhotoCount   *int64
	DailyPeakCount    *int64
	MaxVideoSeconds   int64
	MaxUploadBytes    int64
	Renditions        int
}

// DailyCeiling returns the tier's daily ceiling for the resource, or nil
// when the resource is unlimited. Unknown resources get a zero ceiling.
func (l Limits) DailyCeiling(r Resource) *int64 {
	switch r {
	case ResourceVideo:
		return l.DailyVideoSeconds
	case ResourcePhoto:
		return l.DailyPhotoCount
	case ResourcePeak:
		return l.DailyPeakCount
	default:
		return ceiling(0)
	}
}

const (
	meteredDailyVideoSeconds = 300
	meteredDailyPhotoCount   = 50
	meteredDailyPeakCount    = 10
)

// LimitsFor resolves the limit profile for an account class. Exactly two
// profiles exist: metered (the free default) and unmetered (the premium
// classes).
func LimitsFor(t account.Type) Limits {
	if t.Metered() {
		return Limits{
			DailyVideoSeconds: ceiling(meteredDailyVideoSeconds),
			DailyPhotoCount:   ceiling(meteredDailyPhotoCount),
			DailyPeakCount:    ceiling(meteredDailyPeakCount),
			MaxVideoSeconds:   60,
			MaxUploadBytes:    100 << 20,
			Renditions:        2,
		}
	}

	return Limits{
		MaxVideoSeconds: 600,
		MaxUploadBytes:  500 << 20,
		Renditions:      4,
	}
}

func ceiling(n int64) *int64 {
	return &n
}

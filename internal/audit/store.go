package audit

import "context"

// Store defines the interface for persisting usage events.
type Store interface {
	SaveDeduction(ctx context.Context, event *DeductionEvent) error
	SaveDenial(ctx context.Context, event *DenialEvent) error
}

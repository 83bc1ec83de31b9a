package audit

import (
	"context"

	"go.uber.org/zap"
)

// Noop is a Store that logs events instead of persisting them. It keeps
// the consumer runnable without Postgres.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op audit store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveDeduction(_ context.Context, event *DeductionEvent) error {
	n.logger.Info("quota deduction event received",
		zap.String("identifier", event.Identifier),
		zap.String("resource", event.Resource),
		zap.Int64("amount", event.Amount),
		zap.Int64("day", event.Day),
		zap.Time("deductedAt", event.DeductedAt),
	)

	return nil
}

func (n *Noop) SaveDenial(_ context.Context, event *DenialEvent) error {
	n.logger.Info("limit denial event received",
		zap.String("source", event.Source),
		zap.String("identifier", event.Identifier),
		zap.String("scope", event.Scope),
		zap.Time("at", event.At),
	)

	return nil
}

var _ Store = (*Noop)(nil)

package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/quotaguard/internal/audit"
)

// PostgresAudit persists usage events to Postgres.
type PostgresAudit struct {
	pool *pgxpool.Pool
}

// NewPostgresAudit creates a Postgres-backed audit store.
func NewPostgresAudit(pool *pgxpool.Pool) *PostgresAudit {
	return &PostgresAudit{pool: pool}
}

func (p *PostgresAudit) SaveDeduction(ctx context.Context, event *audit.DeductionEvent) error {
	query := `
		INSERT INTO quota_deductions (identifier, resource, amount, day, deducted_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Identifier,
		event.Resource,
		event.Amount,
		event.Day,
		event.DeductedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *PostgresAudit) SaveDenial(ctx context.Context, event *audit.DenialEvent) error {
	query := `
		INSERT INTO limit_denials (source, identifier, scope, denied_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Source,
		event.Identifier,
		event.Scope,
		event.At,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

// Compile-time check.
var _ audit.Store = (*PostgresAudit)(nil)

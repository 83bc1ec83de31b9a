package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/quotaguard/internal/account"
)

// PostgresAccounts resolves account tiers from the accounts table.
type PostgresAccounts struct {
	pool *pgxpool.Pool
}

// NewPostgresAccounts creates a Postgres-backed account lookup.
func NewPostgresAccounts(pool *pgxpool.Pool) *PostgresAccounts {
	return &PostgresAccounts{pool: pool}
}

// AccountType returns the stored tier for identifier. Identifiers without a
// row are free tier; only storage failures surface as errors.
func (p *PostgresAccounts) AccountType(ctx context.Context, identifier string) (account.Type, error) {
	query := `
		SELECT account_type
		FROM accounts
		WHERE identifier = $1
	`

	var acct string

	err := p.pool.QueryRow(ctx, query, identifier).Scan(&acct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.TypeFree, nil
		}

		return "", err
	}

	return account.Type(acct), nil
}

// Compile-time check.
var _ account.Lookup = (*PostgresAccounts)(nil)

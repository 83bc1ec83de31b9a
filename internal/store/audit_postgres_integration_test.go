//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/quotaguard/internal/audit"
	"github.com/serroba/quotaguard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresAuditIntegration(t *testing.T) {
	ctx := context.Background()

	pool := newTestPool(t)
	defer pool.Close()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS quota_deductions (
			id          BIGSERIAL PRIMARY KEY,
			identifier  TEXT NOT NULL,
			resource    TEXT NOT NULL,
			amount      BIGINT NOT NULL,
			day         BIGINT NOT NULL,
			deducted_at TIMESTAMPTZ NOT NULL,
			client_ip   TEXT,
			user_agent  TEXT
		)
	`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS limit_denials (
			id         BIGSERIAL PRIMARY KEY,
			source     TEXT NOT NULL,
			identifier TEXT NOT NULL,
			scope      TEXT NOT NULL,
			denied_at  TIMESTAMPTZ NOT NULL,
			client_ip  TEXT,
			user_agent TEXT
		)
	`)
	require.NoError(t, err)

	auditStore := store.NewPostgresAudit(pool)

	t.Run("saves deduction events", func(t *testing.T) {
		event := &audit.DeductionEvent{
			Identifier: "itest-user-1",
			Resource:   "video",
			Amount:     30,
			Day:        20245,
			DeductedAt: time.Now().UTC().Truncate(time.Microsecond),
			ClientIP:   "127.0.0.1",
			UserAgent:  "itest/1.0",
		}

		err := auditStore.SaveDeduction(ctx, event)
		require.NoError(t, err)

		var amount int64
		err = pool.QueryRow(ctx,
			"SELECT amount FROM quota_deductions WHERE identifier = $1 AND day = $2",
			event.Identifier, event.Day,
		).Scan(&amount)
		require.NoError(t, err)
		assert.Equal(t, int64(30), amount)

		_, _ = pool.Exec(ctx, "DELETE FROM quota_deductions WHERE identifier = $1", event.Identifier)
	})

	t.Run("saves denial events", func(t *testing.T) {
		event := &audit.DenialEvent{
			Source:     "ratelimit",
			Identifier: "itest-client-1",
			Scope:      "upload",
			At:         time.Now().UTC().Truncate(time.Microsecond),
			ClientIP:   "127.0.0.1",
			UserAgent:  "itest/1.0",
		}

		err := auditStore.SaveDenial(ctx, event)
		require.NoError(t, err)

		var scope string
		err = pool.QueryRow(ctx,
			"SELECT scope FROM limit_denials WHERE identifier = $1",
			event.Identifier,
		).Scan(&scope)
		require.NoError(t, err)
		assert.Equal(t, "upload", scope)

		_, _ = pool.Exec(ctx, "DELETE FROM limit_denials WHERE identifier = $1", event.Identifier)
	})
}

/**
 * @description
 * Idempotent schema bootstrap. Run once at startup so a fresh database is
 * usable without a separate migration step.
 */
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
    CREATE TABLE IF NOT EXISTS users (
        user_id UUID PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        status TEXT NOT NULL DEFAULT 'ACTIVE',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE TABLE IF NOT EXISTS accounts (
        account_id UUID PRIMARY KEY,
        user_id UUID NOT NULL REFERENCES users(user_id),
        service_name TEXT NOT NULL,
        login_id TEXT NOT NULL,
        password_ciphertext TEXT NOT NULL,
        password_nonce TEXT NOT NULL,
        url TEXT NOT NULL DEFAULT '',
        category_id TEXT NOT NULL DEFAULT '',
        tags TEXT NOT NULL DEFAULT '',
        notes TEXT NOT NULL DEFAULT '',
        is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE TABLE IF NOT EXISTS subscriptions (
        subscription_id UUID PRIMARY KEY,
        user_id UUID NOT NULL REFERENCES users(user_id),
        account_id TEXT NOT NULL DEFAULT '',
        service_name TEXT NOT NULL,
        plan_name TEXT NOT NULL DEFAULT '',
        subscription_type TEXT NOT NULL DEFAULT 'RECURRING',
        cycle TEXT NOT NULL,
        cycle_days INT NOT NULL DEFAULT 0,
        amount_per_cycle DOUBLE PRECISION NOT NULL,
        currency TEXT NOT NULL,
        start_date DATE NOT NULL,
        end_date DATE,
        next_due_date DATE,
        reminder_days INT NOT NULL DEFAULT 3,
        status TEXT NOT NULL DEFAULT 'ACTIVE',
        notes TEXT NOT NULL DEFAULT '',
        is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE INDEX IF NOT EXISTS idx_subscriptions_user ON subscriptions (user_id) WHERE is_deleted = FALSE;
    CREATE INDEX IF NOT EXISTS idx_subscriptions_due ON subscriptions (next_due_date) WHERE is_deleted = FALSE AND status = 'ACTIVE';
    CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts (user_id) WHERE is_deleted = FALSE;
`

// EnsureSchema creates the application tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const sessionsSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		token VARCHAR(255) UNIQUE NOT NULL,
		access_token TEXT NOT NULL,
		csrf_token VARCHAR(255) NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);
`

// Migrate creates the sessions table if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	return NewTxManager(db).WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sessionsSchema); err != nil {
			return fmt.Errorf("failed to create sessions schema: %w", err)
		}
		return nil
	})
}

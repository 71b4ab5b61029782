package app

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS rides (
	id TEXT PRIMARY KEY,
	requester_id TEXT NOT NULL,
	requester_name TEXT NOT NULL,
	volunteer_id TEXT,
	volunteer_name TEXT,
	type TEXT NOT NULL,
	pickup TEXT NOT NULL,
	drop_location TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	pickup_otp TEXT NOT NULL,
	rating INTEGER,
	review TEXT,
	tip DOUBLE PRECISION NOT NULL DEFAULT 0,
	payment_method TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rides_status_created ON rides (status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_rides_requester ON rides (requester_id);
CREATE INDEX IF NOT EXISTS idx_rides_volunteer ON rides (volunteer_id);
`

// Migrate ensures the schema exists. Statements are idempotent, so running
// on every startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

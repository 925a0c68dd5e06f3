package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS djs (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	genres TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS dj_availability (
	id BIGSERIAL PRIMARY KEY,
	dj_id BIGINT NOT NULL REFERENCES djs(id) ON DELETE CASCADE,
	day DATE NOT NULL,
	status TEXT NOT NULL DEFAULT 'AVAILABLE',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT dj_availability_day_unique UNIQUE (dj_id, day)
);

CREATE TABLE IF NOT EXISTS booking_requests (
	id BIGSERIAL PRIMARY KEY,
	client_name TEXT NOT NULL,
	client_email TEXT NOT NULL,
	client_phone TEXT,
	event_date DATE NOT NULL,
	dj_id BIGINT REFERENCES djs(id),
	quote_amount NUMERIC(10,2),
	status TEXT NOT NULL DEFAULT 'NEW',
	has_responded BOOLEAN NOT NULL DEFAULT FALSE,
	response_method TEXT NOT NULL DEFAULT 'NONE',
	last_response_at TIMESTAMPTZ,
	next_follow_up_at TIMESTAMPTZ,
	follow_up_count INTEGER NOT NULL DEFAULT 0,
	follow_up_history JSONB NOT NULL DEFAULT '[]'::jsonb,
	automated_follow_up BOOLEAN NOT NULL DEFAULT TRUE,
	claimed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS client_interactions (
	id UUID PRIMARY KEY,
	booking_request_id BIGINT NOT NULL REFERENCES booking_requests(id) ON DELETE CASCADE,
	method TEXT NOT NULL DEFAULT 'NONE',
	notes TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	is_follow_up BOOLEAN NOT NULL DEFAULT FALSE,
	is_client_response BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_booking_requests_follow_up_due
	ON booking_requests (status, has_responded, next_follow_up_at);
CREATE INDEX IF NOT EXISTS idx_client_interactions_request
	ON client_interactions (booking_request_id, created_at);
`

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

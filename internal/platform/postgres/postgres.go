// Package postgres owns the connection pool and schema bootstrap for the
// relational store backing every aggregate.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. Dates and clock times are kept
// in their wire format (YYYY-MM-DD, HH:MM); both sort correctly as text.
//
// The partial unique index on attendance is the atomic guard for the
// one-active-check-in-per-child-per-day rule: concurrent check-ins race on
// the index instead of on an application-level read-then-write.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS babysitters (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT,
	phone_number TEXT NOT NULL,
	national_id TEXT NOT NULL UNIQUE,
	date_of_birth TEXT NOT NULL,
	next_of_kin_name TEXT NOT NULL,
	next_of_kin_phone TEXT NOT NULL,
	user_id UUID REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS children (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	age INT NOT NULL,
	parent_name TEXT NOT NULL,
	parent_phone TEXT NOT NULL,
	parent_email TEXT,
	allergies TEXT NOT NULL DEFAULT 'None',
	medical_conditions TEXT NOT NULL DEFAULT 'None',
	dietary_restrictions TEXT NOT NULL DEFAULT 'None',
	other_needs TEXT NOT NULL DEFAULT 'None',
	session_type TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
	id UUID PRIMARY KEY,
	child_id UUID NOT NULL REFERENCES children(id),
	babysitter_id UUID NOT NULL REFERENCES babysitters(id),
	date TEXT NOT NULL,
	session_type TEXT NOT NULL,
	check_in_time TEXT NOT NULL,
	check_out_time TEXT,
	status TEXT NOT NULL,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS attendance_active_checkin
	ON attendance (child_id, date)
	WHERE status = 'checked-in';

CREATE TABLE IF NOT EXISTS incidents (
	id UUID PRIMARY KEY,
	child_id UUID NOT NULL REFERENCES children(id),
	reported_by UUID NOT NULL REFERENCES babysitters(id),
	date TEXT NOT NULL,
	incident_type TEXT NOT NULL,
	description TEXT NOT NULL,
	severity TEXT NOT NULL,
	action_taken TEXT NOT NULL,
	parent_notified BOOLEAN NOT NULL DEFAULT FALSE,
	notification_time TIMESTAMPTZ,
	follow_up_required BOOLEAN NOT NULL DEFAULT FALSE,
	follow_up_notes TEXT,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id UUID PRIMARY KEY,
	babysitter_id UUID NOT NULL REFERENCES babysitters(id),
	date TEXT NOT NULL,
	half_day_children INT NOT NULL,
	full_day_children INT NOT NULL,
	half_day_rate BIGINT NOT NULL,
	full_day_rate BIGINT NOT NULL,
	total_amount BIGINT NOT NULL,
	status TEXT NOT NULL,
	approved_by UUID REFERENCES users(id),
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
	id UUID PRIMARY KEY,
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	amount BIGINT NOT NULL,
	date TEXT NOT NULL,
	approved_by UUID NOT NULL REFERENCES users(id),
	receipt_image TEXT,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// Connect opens a pgx pool, verifies connectivity and applies the schema.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return pool, nil
}

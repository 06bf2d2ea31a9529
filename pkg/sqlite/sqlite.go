// Package sqlite implements the db.Database interface on an embedded SQLite
// database (modernc.org/sqlite, no cgo) for single-machine deployments.
// Timestamps are stored as RFC3339 text.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS volunteers (
    id          TEXT PRIMARY KEY,
    first_name  TEXT NOT NULL,
    last_name   TEXT NOT NULL,
    role        TEXT NOT NULL,
    email       TEXT NOT NULL DEFAULT '',
    is_active   INTEGER NOT NULL DEFAULT 1,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS volunteer_notes (
    id           TEXT PRIMARY KEY,
    volunteer_id TEXT NOT NULL REFERENCES volunteers(id),
    note         TEXT NOT NULL,
    created_by   TEXT NOT NULL,
    created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS criteria (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    category        TEXT NOT NULL,
    data_type       TEXT NOT NULL,
    max_score       REAL NOT NULL,
    weight          REAL NOT NULL,
    applies_to_role TEXT NOT NULL DEFAULT 'all',
    choice_values   TEXT,
    sort_order      INTEGER NOT NULL DEFAULT 0,
    is_active       INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS evaluations (
    id                 TEXT PRIMARY KEY,
    volunteer_id       TEXT NOT NULL REFERENCES volunteers(id),
    evaluator_id       TEXT NOT NULL,
    month              INTEGER NOT NULL,
    year               INTEGER NOT NULL,
    status             TEXT NOT NULL DEFAULT 'draft',
    total_score        REAL NOT NULL DEFAULT 0,
    max_possible_score REAL NOT NULL DEFAULT 0,
    percentage         REAL NOT NULL DEFAULT 0,
    is_frozen          INTEGER NOT NULL DEFAULT 0,
    freeze_start       TEXT,
    freeze_end         TEXT,
    created_at         TEXT NOT NULL,
    updated_at         TEXT NOT NULL,
    UNIQUE (volunteer_id, month, year)
);

CREATE TABLE IF NOT EXISTS evaluation_details (
    id            TEXT PRIMARY KEY,
    evaluation_id TEXT NOT NULL REFERENCES evaluations(id) ON DELETE CASCADE,
    criteria_id   TEXT NOT NULL REFERENCES criteria(id),
    raw_value     TEXT NOT NULL DEFAULT '',
    score_value   REAL NOT NULL DEFAULT 0,
    weight_used   REAL NOT NULL DEFAULT 0,
    UNIQUE (evaluation_id, criteria_id)
);

CREATE TABLE IF NOT EXISTS freezes (
    id           TEXT PRIMARY KEY,
    volunteer_id TEXT NOT NULL REFERENCES volunteers(id),
    freeze_year  INTEGER NOT NULL,
    start_date   TEXT NOT NULL,
    end_date     TEXT NOT NULL,
    reason       TEXT NOT NULL,
    is_active    INTEGER NOT NULL DEFAULT 1,
    created_by   TEXT NOT NULL,
    created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
    id                TEXT PRIMARY KEY,
    volunteer_id      TEXT NOT NULL REFERENCES volunteers(id),
    alert_type        TEXT NOT NULL,
    severity          TEXT NOT NULL,
    message           TEXT NOT NULL DEFAULT '',
    trigger_condition TEXT,
    is_resolved       INTEGER NOT NULL DEFAULT 0,
    resolved_by       TEXT,
    resolved_at       TEXT,
    resolution_notes  TEXT NOT NULL DEFAULT '',
    created_by        TEXT NOT NULL,
    created_at        TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS alerts_open_unique_idx
    ON alerts (volunteer_id, alert_type) WHERE is_resolved = 0;
CREATE INDEX IF NOT EXISTS evaluations_period_idx ON evaluations (year, month);
`

// DB provides database operations using SQLite
type DB struct {
	conn *sql.DB
}

// NewDB opens (or creates) the SQLite database at path and ensures the schema
func NewDB(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite handles one writer at a time
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.conn.Close()
}

// withTx runs fn inside a transaction, rolling back on error
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// formatTime renders a timestamp for storage
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads a stored timestamp
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// formatNullTime renders an optional timestamp
func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseNullTime reads an optional stored timestamp
func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

const alertColumns = `
	id, volunteer_id, alert_type, severity, message, trigger_condition,
	is_resolved, resolved_by, resolved_at, resolution_notes, created_by, created_at
`

func scanAlert(row pgx.Row) (*db.Alert, error) {
	var a db.Alert
	err := row.Scan(&a.ID, &a.VolunteerID, &a.AlertType, &a.Severity, &a.Message, &a.TriggerCondition,
		&a.IsResolved, &a.ResolvedBy, &a.ResolvedAt, &a.ResolutionNotes, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAlert retrieves an alert by id
func (d *DB) GetAlert(ctx context.Context, id string) (*db.Alert, error) {
	alert, err := scanAlert(d.pool.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("alert %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query alert: %w", err)
	}
	return alert, nil
}

// ListAlerts retrieves alerts, newest first, optionally restricted to one
// volunteer and/or to unresolved alerts
func (d *DB) ListAlerts(ctx context.Context, volunteerID string, unresolvedOnly bool) ([]db.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE TRUE`
	var args []any
	if volunteerID != "" {
		args = append(args, volunteerID)
		query += fmt.Sprintf(` AND volunteer_id = $%d`, len(args))
	}
	if unresolvedOnly {
		query += ` AND NOT is_resolved`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []db.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}
	return alerts, nil
}

// InsertAlertIfNoneOpen inserts the alert unless an unresolved alert of the
// same type already exists for the volunteer, and reports whether a row was
// written. The conditional insert and the partial unique index together make
// the check race-free.
func (d *DB) InsertAlertIfNoneOpen(ctx context.Context, alert *db.Alert) (bool, error) {
	tag, err := d.pool.Exec(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE volunteer_id = $2 AND alert_type = $3 AND NOT is_resolved
		)
	`, alert.ID, alert.VolunteerID, alert.AlertType, alert.Severity, alert.Message, alert.TriggerCondition,
		alert.IsResolved, alert.ResolvedBy, alert.ResolvedAt, alert.ResolutionNotes, alert.CreatedBy, alert.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert alert: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ResolveAlert stamps the resolution fields and appends the volunteer note in
// the same transaction
func (d *DB) ResolveAlert(ctx context.Context, id, resolvedBy, notes string, resolvedAt time.Time, note *db.VolunteerNote) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE alerts
			SET is_resolved = TRUE, resolved_by = $2, resolved_at = $3, resolution_notes = $4
			WHERE id = $1 AND NOT is_resolved
		`, id, resolvedBy, resolvedAt, notes)
		if err != nil {
			return fmt.Errorf("failed to update alert: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("alert %s is missing or already resolved: %w", id, db.ErrConflict)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO volunteer_notes (id, volunteer_id, note, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, note.ID, note.VolunteerID, note.Note, note.CreatedBy, note.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert resolution note: %w", err)
		}
		return nil
	})
}

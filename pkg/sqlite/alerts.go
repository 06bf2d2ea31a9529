package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

const alertColumns = `
	id, volunteer_id, alert_type, severity, message, trigger_condition,
	is_resolved, resolved_by, resolved_at, resolution_notes, created_by, created_at
`

func scanAlert(row rowScanner) (*db.Alert, error) {
	var a db.Alert
	var trigger, resolvedBy, resolvedAt sql.NullString
	var createdAt string
	err := row.Scan(&a.ID, &a.VolunteerID, &a.AlertType, &a.Severity, &a.Message, &trigger,
		&a.IsResolved, &resolvedBy, &resolvedAt, &a.ResolutionNotes, &a.CreatedBy, &createdAt)
	if err != nil {
		return nil, err
	}
	if trigger.Valid && trigger.String != "" {
		a.TriggerCondition = json.RawMessage(trigger.String)
	}
	if resolvedBy.Valid {
		a.ResolvedBy = &resolvedBy.String
	}
	if a.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAlert retrieves an alert by id
func (d *DB) GetAlert(ctx context.Context, id string) (*db.Alert, error) {
	alert, err := scanAlert(d.conn.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
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
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE 1=1`
	var args []any
	if volunteerID != "" {
		query += ` AND volunteer_id = ?`
		args = append(args, volunteerID)
	}
	if unresolvedOnly {
		query += ` AND is_resolved = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.conn.QueryContext(ctx, query, args...)
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
// written
func (d *DB) InsertAlertIfNoneOpen(ctx context.Context, alert *db.Alert) (bool, error) {
	var trigger any
	if len(alert.TriggerCondition) > 0 {
		trigger = string(alert.TriggerCondition)
	}

	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE volunteer_id = ? AND alert_type = ? AND is_resolved = 0
		)
	`, alert.ID, alert.VolunteerID, alert.AlertType, alert.Severity, alert.Message, trigger,
		alert.IsResolved, alert.ResolvedBy, formatNullTime(alert.ResolvedAt), alert.ResolutionNotes,
		alert.CreatedBy, formatTime(alert.CreatedAt),
		alert.VolunteerID, alert.AlertType)
	if err != nil {
		return false, fmt.Errorf("failed to insert alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// ResolveAlert stamps the resolution fields and appends the volunteer note in
// the same transaction
func (d *DB) ResolveAlert(ctx context.Context, id, resolvedBy, notes string, resolvedAt time.Time, note *db.VolunteerNote) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE alerts
			SET is_resolved = 1, resolved_by = ?, resolved_at = ?, resolution_notes = ?
			WHERE id = ? AND is_resolved = 0
		`, resolvedBy, formatTime(resolvedAt), notes, id)
		if err != nil {
			return fmt.Errorf("failed to update alert: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("alert %s is missing or already resolved: %w", id, db.ErrConflict)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO volunteer_notes (id, volunteer_id, note, created_by, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, note.ID, note.VolunteerID, note.Note, note.CreatedBy, formatTime(note.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert resolution note: %w", err)
		}
		return nil
	})
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// GetVolunteer retrieves a volunteer by id
func (d *DB) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	var v db.Volunteer
	var createdAt string
	err := d.conn.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, role, email, is_active, created_at
		FROM volunteers WHERE id = ?
	`, id).Scan(&v.ID, &v.FirstName, &v.LastName, &v.Role, &v.Email, &v.IsActive, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer: %w", err)
	}
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVolunteers retrieves all volunteers, optionally only active ones
func (d *DB) ListVolunteers(ctx context.Context, activeOnly bool) ([]db.Volunteer, error) {
	query := `
		SELECT id, first_name, last_name, role, email, is_active, created_at
		FROM volunteers
	`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []db.Volunteer
	for rows.Next() {
		var v db.Volunteer
		var createdAt string
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &v.Role, &v.Email, &v.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}
	return volunteers, nil
}

// InsertVolunteer inserts a new volunteer record
func (d *DB) InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO volunteers (id, first_name, last_name, role, email, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, volunteer.ID, volunteer.FirstName, volunteer.LastName, volunteer.Role,
		volunteer.Email, volunteer.IsActive, formatTime(volunteer.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

// InsertVolunteerNote appends a note to a volunteer's cumulative notes
func (d *DB) InsertVolunteerNote(ctx context.Context, note *db.VolunteerNote) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO volunteer_notes (id, volunteer_id, note, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, note.ID, note.VolunteerID, note.Note, note.CreatedBy, formatTime(note.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert volunteer note: %w", err)
	}
	return nil
}

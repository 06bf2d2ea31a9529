package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// GetVolunteer retrieves a volunteer by id
func (d *DB) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	var v db.Volunteer
	err := d.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, role, email, is_active, created_at
		FROM volunteers WHERE id = $1
	`, id).Scan(&v.ID, &v.FirstName, &v.LastName, &v.Role, &v.Email, &v.IsActive, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer: %w", err)
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
		query += ` WHERE is_active`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []db.Volunteer
	for rows.Next() {
		var v db.Volunteer
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &v.Role, &v.Email, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
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
	_, err := d.pool.Exec(ctx, `
		INSERT INTO volunteers (id, first_name, last_name, role, email, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, volunteer.ID, volunteer.FirstName, volunteer.LastName, volunteer.Role,
		volunteer.Email, volunteer.IsActive, volunteer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

// InsertVolunteerNote appends a note to a volunteer's cumulative notes
func (d *DB) InsertVolunteerNote(ctx context.Context, note *db.VolunteerNote) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO volunteer_notes (id, volunteer_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, note.ID, note.VolunteerID, note.Note, note.CreatedBy, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer note: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// CountActiveFreezes counts a volunteer's active freeze records for a year
func (d *DB) CountActiveFreezes(ctx context.Context, volunteerID string, year int) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM freezes
		WHERE volunteer_id = $1 AND freeze_year = $2 AND is_active
	`, volunteerID, year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count freezes: %w", err)
	}
	return count, nil
}

// GetActiveFreezes retrieves a volunteer's active freeze records ordered by
// start date
func (d *DB) GetActiveFreezes(ctx context.Context, volunteerID string) ([]db.FreezeRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, volunteer_id, freeze_year, start_date, end_date, reason, is_active, created_by, created_at
		FROM freezes
		WHERE volunteer_id = $1 AND is_active
		ORDER BY start_date
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query freezes: %w", err)
	}
	defer rows.Close()

	var recs []db.FreezeRecord
	for rows.Next() {
		var rec db.FreezeRecord
		if err := rows.Scan(&rec.ID, &rec.VolunteerID, &rec.FreezeYear, &rec.StartDate, &rec.EndDate,
			&rec.Reason, &rec.IsActive, &rec.CreatedBy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan freeze: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating freezes: %w", err)
	}
	return recs, nil
}

// CreateFreeze inserts a freeze record, enforcing the annual cap inside the
// transaction. The count locks the volunteer's freeze rows so two concurrent
// inserts cannot both pass the cap check.
func (d *DB) CreateFreeze(ctx context.Context, rec *db.FreezeRecord) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		var count int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM (
				SELECT id FROM freezes
				WHERE volunteer_id = $1 AND freeze_year = $2 AND is_active
				FOR UPDATE
			) locked
		`, rec.VolunteerID, rec.FreezeYear).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count freezes: %w", err)
		}
		if count >= db.MaxFreezesPerYear {
			return fmt.Errorf("volunteer %s already has %d freezes in %d: %w",
				rec.VolunteerID, count, rec.FreezeYear, db.ErrConflict)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO freezes (id, volunteer_id, freeze_year, start_date, end_date, reason, is_active, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, rec.ID, rec.VolunteerID, rec.FreezeYear, rec.StartDate, rec.EndDate,
			rec.Reason, rec.IsActive, rec.CreatedBy, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert freeze: %w", err)
		}
		return nil
	})
}

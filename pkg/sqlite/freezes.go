package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// CountActiveFreezes counts a volunteer's active freeze records for a year
func (d *DB) CountActiveFreezes(ctx context.Context, volunteerID string, year int) (int, error) {
	var count int
	err := d.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM freezes
		WHERE volunteer_id = ? AND freeze_year = ? AND is_active = 1
	`, volunteerID, year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count freezes: %w", err)
	}
	return count, nil
}

// GetActiveFreezes retrieves a volunteer's active freeze records ordered by
// start date
func (d *DB) GetActiveFreezes(ctx context.Context, volunteerID string) ([]db.FreezeRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, volunteer_id, freeze_year, start_date, end_date, reason, is_active, created_by, created_at
		FROM freezes
		WHERE volunteer_id = ? AND is_active = 1
		ORDER BY start_date
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query freezes: %w", err)
	}
	defer rows.Close()

	var recs []db.FreezeRecord
	for rows.Next() {
		var rec db.FreezeRecord
		var startDate, endDate, createdAt string
		if err := rows.Scan(&rec.ID, &rec.VolunteerID, &rec.FreezeYear, &startDate, &endDate,
			&rec.Reason, &rec.IsActive, &rec.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan freeze: %w", err)
		}
		if rec.StartDate, err = parseTime(startDate); err != nil {
			return nil, err
		}
		if rec.EndDate, err = parseTime(endDate); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating freezes: %w", err)
	}
	return recs, nil
}

// CreateFreeze inserts a freeze record, enforcing the annual cap inside the
// transaction. SQLite serializes writers, so the count-then-insert pair
// cannot interleave with a concurrent insert.
func (d *DB) CreateFreeze(ctx context.Context, rec *db.FreezeRecord) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM freezes
			WHERE volunteer_id = ? AND freeze_year = ? AND is_active = 1
		`, rec.VolunteerID, rec.FreezeYear).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count freezes: %w", err)
		}
		if count >= db.MaxFreezesPerYear {
			return fmt.Errorf("volunteer %s already has %d freezes in %d: %w",
				rec.VolunteerID, count, rec.FreezeYear, db.ErrConflict)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO freezes (id, volunteer_id, freeze_year, start_date, end_date, reason, is_active, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.VolunteerID, rec.FreezeYear, formatTime(rec.StartDate), formatTime(rec.EndDate),
			rec.Reason, rec.IsActive, rec.CreatedBy, formatTime(rec.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert freeze: %w", err)
		}
		return nil
	})
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

const evaluationColumns = `
	id, volunteer_id, evaluator_id, month, year, status,
	total_score, max_possible_score, percentage,
	is_frozen, freeze_start, freeze_end, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (*db.Evaluation, error) {
	var e db.Evaluation
	var freezeStart, freezeEnd sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.VolunteerID, &e.EvaluatorID, &e.Month, &e.Year, &e.Status,
		&e.TotalScore, &e.MaxPossibleScore, &e.Percentage,
		&e.IsFrozen, &freezeStart, &freezeEnd, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if e.FreezeStart, err = parseNullTime(freezeStart); err != nil {
		return nil, err
	}
	if e.FreezeEnd, err = parseNullTime(freezeEnd); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEvaluation retrieves an evaluation by id
func (d *DB) GetEvaluation(ctx context.Context, id string) (*db.Evaluation, error) {
	eval, err := scanEvaluation(d.conn.QueryRowContext(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("evaluation %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation: %w", err)
	}
	return eval, nil
}

// InsertEvaluation writes an evaluation and its detail batch in one
// transaction. A duplicate (volunteer, month, year) maps to db.ErrConflict.
func (d *DB) InsertEvaluation(ctx context.Context, eval *db.Evaluation, details []db.EvaluationDetail) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO evaluations (`+evaluationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, eval.ID, eval.VolunteerID, eval.EvaluatorID, eval.Month, eval.Year, eval.Status,
			eval.TotalScore, eval.MaxPossibleScore, eval.Percentage,
			eval.IsFrozen, formatNullTime(eval.FreezeStart), formatNullTime(eval.FreezeEnd),
			formatTime(eval.CreatedAt), formatTime(eval.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert evaluation: %w", err)
		}
		return insertDetails(ctx, tx, details)
	})

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("evaluation exists for volunteer %s %d/%d: %w",
			eval.VolunteerID, eval.Month, eval.Year, db.ErrConflict)
	}
	return err
}

// ReplaceEvaluationDetails updates the evaluation totals and swaps the full
// detail batch in one transaction; prior details are discarded
func (d *DB) ReplaceEvaluationDetails(ctx context.Context, eval *db.Evaluation, details []db.EvaluationDetail) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE evaluations
			SET total_score = ?, max_possible_score = ?, percentage = ?, updated_at = ?
			WHERE id = ?
		`, eval.TotalScore, eval.MaxPossibleScore, eval.Percentage, formatTime(eval.UpdatedAt), eval.ID)
		if err != nil {
			return fmt.Errorf("failed to update evaluation: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("evaluation %s: %w", eval.ID, db.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM evaluation_details WHERE evaluation_id = ?`, eval.ID); err != nil {
			return fmt.Errorf("failed to delete prior details: %w", err)
		}
		return insertDetails(ctx, tx, details)
	})
}

func insertDetails(ctx context.Context, tx *sql.Tx, details []db.EvaluationDetail) error {
	for _, detail := range details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO evaluation_details (id, evaluation_id, criteria_id, raw_value, score_value, weight_used)
			VALUES (?, ?, ?, ?, ?, ?)
		`, detail.ID, detail.EvaluationID, detail.CriteriaID, detail.RawValue, detail.ScoreValue, detail.WeightUsed)
		if err != nil {
			return fmt.Errorf("failed to insert evaluation detail: %w", err)
		}
	}
	return nil
}

// SetEvaluationStatus updates an evaluation's status
func (d *DB) SetEvaluationStatus(ctx context.Context, id, status string) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE evaluations SET status = ?, updated_at = ? WHERE id = ?
	`, status, formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to set evaluation status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("evaluation %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// SetEvaluationFreeze stamps the freeze annotation on an evaluation
func (d *DB) SetEvaluationFreeze(ctx context.Context, id string, start, end time.Time) error {
	res, err := d.conn.ExecContext(ctx, `
		UPDATE evaluations SET is_frozen = 1, freeze_start = ?, freeze_end = ?, updated_at = ? WHERE id = ?
	`, formatTime(start), formatTime(end), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to set evaluation freeze: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("evaluation %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// GetEvaluations retrieves evaluations matching the filter, ordered by period
func (d *DB) GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE 1=1`
	var args []any

	if filter.VolunteerID != "" {
		query += ` AND volunteer_id = ?`
		args = append(args, filter.VolunteerID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.FromPeriod != 0 {
		query += ` AND (year * 12 + month - 1) >= ?`
		args = append(args, filter.FromPeriod)
	}
	if filter.ToPeriod != 0 {
		query += ` AND (year * 12 + month - 1) <= ?`
		args = append(args, filter.ToPeriod)
	}
	if filter.ExcludeFrozen {
		query += ` AND is_frozen = 0`
	}
	query += ` ORDER BY year, month`

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var evals []db.Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evals = append(evals, *eval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluations: %w", err)
	}
	return evals, nil
}

// GetEvaluationDetails retrieves the detail rows for one evaluation
func (d *DB) GetEvaluationDetails(ctx context.Context, evaluationID string) ([]db.EvaluationDetail, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, evaluation_id, criteria_id, raw_value, score_value, weight_used
		FROM evaluation_details WHERE evaluation_id = ?
	`, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation details: %w", err)
	}
	defer rows.Close()

	var details []db.EvaluationDetail
	for rows.Next() {
		var detail db.EvaluationDetail
		if err := rows.Scan(&detail.ID, &detail.EvaluationID, &detail.CriteriaID,
			&detail.RawValue, &detail.ScoreValue, &detail.WeightUsed); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation detail: %w", err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation details: %w", err)
	}
	return details, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

const uniqueViolationCode = "23505"

const evaluationColumns = `
	id, volunteer_id, evaluator_id, month, year, status,
	total_score, max_possible_score, percentage,
	is_frozen, freeze_start, freeze_end, created_at, updated_at
`

func scanEvaluation(row pgx.Row) (*db.Evaluation, error) {
	var e db.Evaluation
	err := row.Scan(&e.ID, &e.VolunteerID, &e.EvaluatorID, &e.Month, &e.Year, &e.Status,
		&e.TotalScore, &e.MaxPossibleScore, &e.Percentage,
		&e.IsFrozen, &e.FreezeStart, &e.FreezeEnd, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEvaluation retrieves an evaluation by id
func (d *DB) GetEvaluation(ctx context.Context, id string) (*db.Evaluation, error) {
	eval, err := scanEvaluation(d.pool.QueryRow(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO evaluations (`+evaluationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, eval.ID, eval.VolunteerID, eval.EvaluatorID, eval.Month, eval.Year, eval.Status,
			eval.TotalScore, eval.MaxPossibleScore, eval.Percentage,
			eval.IsFrozen, eval.FreezeStart, eval.FreezeEnd, eval.CreatedAt, eval.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert evaluation: %w", err)
		}
		return insertDetails(ctx, tx, details)
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("evaluation exists for volunteer %s %d/%d: %w",
			eval.VolunteerID, eval.Month, eval.Year, db.ErrConflict)
	}
	return err
}

// ReplaceEvaluationDetails updates the evaluation totals and swaps the full
// detail batch in one transaction; prior details are discarded
func (d *DB) ReplaceEvaluationDetails(ctx context.Context, eval *db.Evaluation, details []db.EvaluationDetail) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE evaluations
			SET total_score = $2, max_possible_score = $3, percentage = $4, updated_at = $5
			WHERE id = $1
		`, eval.ID, eval.TotalScore, eval.MaxPossibleScore, eval.Percentage, eval.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update evaluation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("evaluation %s: %w", eval.ID, db.ErrNotFound)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM evaluation_details WHERE evaluation_id = $1`, eval.ID); err != nil {
			return fmt.Errorf("failed to delete prior details: %w", err)
		}
		return insertDetails(ctx, tx, details)
	})
}

func insertDetails(ctx context.Context, tx pgx.Tx, details []db.EvaluationDetail) error {
	for _, detail := range details {
		_, err := tx.Exec(ctx, `
			INSERT INTO evaluation_details (id, evaluation_id, criteria_id, raw_value, score_value, weight_used)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, detail.ID, detail.EvaluationID, detail.CriteriaID, detail.RawValue, detail.ScoreValue, detail.WeightUsed)
		if err != nil {
			return fmt.Errorf("failed to insert evaluation detail: %w", err)
		}
	}
	return nil
}

// SetEvaluationStatus updates an evaluation's status
func (d *DB) SetEvaluationStatus(ctx context.Context, id, status string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE evaluations SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to set evaluation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("evaluation %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// SetEvaluationFreeze stamps the freeze annotation on an evaluation
func (d *DB) SetEvaluationFreeze(ctx context.Context, id string, start, end time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE evaluations SET is_frozen = TRUE, freeze_start = $2, freeze_end = $3, updated_at = NOW()
		WHERE id = $1
	`, id, start, end)
	if err != nil {
		return fmt.Errorf("failed to set evaluation freeze: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("evaluation %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// GetEvaluations retrieves evaluations matching the filter, ordered by period
func (d *DB) GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE TRUE`
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.VolunteerID != "" {
		query += ` AND volunteer_id = ` + arg(filter.VolunteerID)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}
	if filter.FromPeriod != 0 {
		query += ` AND (year * 12 + month - 1) >= ` + arg(filter.FromPeriod)
	}
	if filter.ToPeriod != 0 {
		query += ` AND (year * 12 + month - 1) <= ` + arg(filter.ToPeriod)
	}
	if filter.ExcludeFrozen {
		query += ` AND NOT is_frozen`
	}
	query += ` ORDER BY year, month`

	rows, err := d.pool.Query(ctx, query, args...)
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
	rows, err := d.pool.Query(ctx, `
		SELECT id, evaluation_id, criteria_id, raw_value, score_value, weight_used
		FROM evaluation_details WHERE evaluation_id = $1
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

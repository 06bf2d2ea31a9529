package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// GetActiveCriteria retrieves active criterion definitions ordered by
// category then sort order. A non-empty role restricts results to criteria
// applicable to that role; an empty role returns every active criterion.
func (d *DB) GetActiveCriteria(ctx context.Context, role string) ([]db.Criterion, error) {
	query := `
		SELECT id, name, category, data_type, max_score, weight, applies_to_role, choice_values, sort_order, is_active
		FROM criteria
		WHERE is_active = 1
	`
	args := []any{}
	if role != "" {
		query += ` AND (applies_to_role = 'all' OR applies_to_role = ?)`
		args = append(args, role)
	}
	query += ` ORDER BY category, sort_order`

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	defer rows.Close()

	var criteria []db.Criterion
	for rows.Next() {
		var c db.Criterion
		var choiceValues sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.DataType, &c.MaxScore,
			&c.Weight, &c.AppliesToRole, &choiceValues, &c.SortOrder, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}
		if choiceValues.Valid && choiceValues.String != "" {
			if err := json.Unmarshal([]byte(choiceValues.String), &c.ChoiceValues); err != nil {
				return nil, fmt.Errorf("failed to decode choice values for criterion %s: %w", c.ID, err)
			}
		}
		criteria = append(criteria, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating criteria: %w", err)
	}
	return criteria, nil
}

// InsertCriterion inserts a new criterion definition
func (d *DB) InsertCriterion(ctx context.Context, criterion *db.Criterion) error {
	var choiceValues any
	if criterion.ChoiceValues != nil {
		encoded, err := json.Marshal(criterion.ChoiceValues)
		if err != nil {
			return fmt.Errorf("failed to encode choice values: %w", err)
		}
		choiceValues = string(encoded)
	}

	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO criteria (id, name, category, data_type, max_score, weight, applies_to_role, choice_values, sort_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, criterion.ID, criterion.Name, criterion.Category, criterion.DataType, criterion.MaxScore,
		criterion.Weight, criterion.AppliesToRole, choiceValues, criterion.SortOrder, criterion.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert criterion: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// GetActiveCriteria retrieves active criterion definitions ordered by
// category then sort order. A non-empty role restricts results to criteria
// applicable to that role (applies_to_role matching the role or 'all');
// an empty role returns every active criterion.
func (d *DB) GetActiveCriteria(ctx context.Context, role string) ([]db.Criterion, error) {
	query := `
		SELECT id, name, category, data_type, max_score, weight, applies_to_role, choice_values, sort_order, is_active
		FROM criteria
		WHERE is_active
	`
	args := []any{}
	if role != "" {
		query += ` AND (applies_to_role = 'all' OR applies_to_role = $1)`
		args = append(args, role)
	}
	query += ` ORDER BY category, sort_order`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	defer rows.Close()

	var criteria []db.Criterion
	for rows.Next() {
		var c db.Criterion
		var choiceValues []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.DataType, &c.MaxScore,
			&c.Weight, &c.AppliesToRole, &choiceValues, &c.SortOrder, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}
		if len(choiceValues) > 0 {
			if err := json.Unmarshal(choiceValues, &c.ChoiceValues); err != nil {
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
	var choiceValues []byte
	if criterion.ChoiceValues != nil {
		var err error
		if choiceValues, err = json.Marshal(criterion.ChoiceValues); err != nil {
			return fmt.Errorf("failed to encode choice values: %w", err)
		}
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO criteria (id, name, category, data_type, max_score, weight, applies_to_role, choice_values, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, criterion.ID, criterion.Name, criterion.Category, criterion.DataType, criterion.MaxScore,
		criterion.Weight, criterion.AppliesToRole, choiceValues, criterion.SortOrder, criterion.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert criterion: %w", err)
	}
	return nil
}

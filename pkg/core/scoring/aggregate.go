package scoring

import (
	"fmt"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// Aggregate resolves every submitted score against the criteria applicable to
// the volunteer role and accumulates weighted totals.
//
// For each submitted score with a matching criterion:
//
//	weightedScore = Resolve(criterion, raw) * criterion.Weight
//	weightedMax   = criterion.MaxScore * criterion.Weight
//
// Submitted ids with no matching active, role-applicable criterion are
// skipped and excluded from MaxPossibleScore (lenient ingestion; they are
// reported in SkippedCriteriaIDs for the caller to log).
//
// Text criteria are never scored: their raw value is kept as a detail row but
// they contribute to neither TotalScore nor MaxPossibleScore, so a comments
// field cannot depress the percentage.
//
// Duplicate criterion ids within one batch fail fast with db.ErrValidation:
// silently accumulating both entries would double-count the criterion.
//
// Aggregation is pure and deterministic; re-running it over the same inputs
// yields identical totals.
func Aggregate(volunteerRole string, criteria []db.Criterion, scores []SubmittedScore) (*Result, error) {
	if err := checkDuplicates(scores); err != nil {
		return nil, err
	}

	registry := NewRegistry(criteria, volunteerRole)
	result := &Result{}

	for _, s := range scores {
		criterion := registry.Lookup(s.CriteriaID)
		if criterion == nil {
			result.SkippedCriteriaIDs = append(result.SkippedCriteriaIDs, s.CriteriaID)
			continue
		}

		finalScore := Resolve(criterion, s.Value)
		result.Details = append(result.Details, ResolvedDetail{
			CriteriaID: s.CriteriaID,
			RawValue:   s.Value,
			ScoreValue: finalScore,
			WeightUsed: criterion.Weight,
		})

		if criterion.DataType == db.DataTypeText {
			continue
		}
		result.TotalScore += finalScore * criterion.Weight
		result.MaxPossibleScore += criterion.MaxScore * criterion.Weight
	}

	if result.MaxPossibleScore > 0 {
		result.Percentage = Round2(result.TotalScore / result.MaxPossibleScore * 100)
	}

	return result, nil
}

// checkDuplicates rejects batches containing the same criterion id twice
func checkDuplicates(scores []SubmittedScore) error {
	seen := make(map[string]bool, len(scores))
	for _, s := range scores {
		if seen[s.CriteriaID] {
			return fmt.Errorf("duplicate criterion %s in submission: %w", s.CriteriaID, db.ErrValidation)
		}
		seen[s.CriteriaID] = true
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/analytics"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/scoring"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// VolunteerComparison summarizes one volunteer's approved evaluations for a year
type VolunteerComparison struct {
	Volunteer       db.Volunteer
	EvaluationCount int
	MeanPercentage  float64
	Consistency     float64
	Trend           string
}

// CompareVolunteersStore defines the database operations needed
type CompareVolunteersStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error)
}

// CompareVolunteers builds a comparison report over the approved evaluations
// of the given volunteers for one calendar year: mean percentage, consistency
// (100 minus the standard deviation, floored at 0) and half-vs-half trend
// direction. Volunteers with fewer than 3 evaluations report
// "insufficient data" as their trend.
func CompareVolunteers(
	ctx context.Context,
	database CompareVolunteersStore,
	logger *zap.Logger,
	volunteerIDs []string,
	year int,
) ([]VolunteerComparison, error) {
	logger.Debug("Comparing volunteers",
		zap.Strings("volunteer_ids", volunteerIDs),
		zap.Int("year", year))

	comparisons := make([]VolunteerComparison, 0, len(volunteerIDs))
	for _, id := range volunteerIDs {
		volunteer, err := database.GetVolunteer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch volunteer %s: %w", id, err)
		}

		evals, err := database.GetEvaluations(ctx, db.EvaluationFilter{
			VolunteerID: id,
			Status:      db.StatusApproved,
			FromPeriod:  year * 12,
			ToPeriod:    year*12 + 11,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch evaluations for %s: %w", id, err)
		}

		// Chronological order for the trend split
		sort.Slice(evals, func(i, j int) bool {
			return evals[i].Period() < evals[j].Period()
		})

		percentages := make([]float64, len(evals))
		for i, e := range evals {
			percentages[i] = e.Percentage
		}

		comparisons = append(comparisons, VolunteerComparison{
			Volunteer:       *volunteer,
			EvaluationCount: len(evals),
			MeanPercentage:  scoring.Round2(analytics.Mean(percentages)),
			Consistency:     scoring.Round2(analytics.Consistency(percentages)),
			Trend:           analytics.TrendDirection(percentages),
		})
	}

	return comparisons, nil
}

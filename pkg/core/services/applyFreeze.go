package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// ApplyFreezeStore defines the database operations needed
type ApplyFreezeStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	CountActiveFreezes(ctx context.Context, volunteerID string, year int) (int, error)
	CreateFreeze(ctx context.Context, rec *db.FreezeRecord) error
	GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error)
	SetEvaluationFreeze(ctx context.Context, id string, start, end time.Time) error
}

// CanFreeze reports whether the volunteer is below the annual freeze cap
func CanFreeze(ctx context.Context, database ApplyFreezeStore, volunteerID string, year int) (bool, error) {
	count, err := database.CountActiveFreezes(ctx, volunteerID, year)
	if err != nil {
		return false, fmt.Errorf("failed to count freezes: %w", err)
	}
	return count < db.MaxFreezesPerYear, nil
}

// ApplyFreeze records an exemption period for a volunteer. Reason, start and
// end date are all required (db.ErrValidation otherwise) and at most
// db.MaxFreezesPerYear active freezes may exist per volunteer per calendar
// year; the store enforces the cap transactionally and returns db.ErrConflict
// when it is reached. Evaluations already stored for periods inside the
// freeze window are annotated as frozen. A frozen evaluation still goes
// through normal aggregation; the freeze is an annotation, not a scoring
// bypass.
func ApplyFreeze(
	ctx context.Context,
	database ApplyFreezeStore,
	logger *zap.Logger,
	actor Actor,
	volunteerID, reason string,
	startDate, endDate time.Time,
) (*db.FreezeRecord, error) {
	if reason == "" || startDate.IsZero() || endDate.IsZero() {
		return nil, fmt.Errorf("freeze requires reason, start date and end date: %w", db.ErrValidation)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("freeze end date precedes start date: %w", db.ErrValidation)
	}

	if _, err := database.GetVolunteer(ctx, volunteerID); err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	rec := &db.FreezeRecord{
		ID:          uuid.New().String(),
		VolunteerID: volunteerID,
		FreezeYear:  startDate.Year(),
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      reason,
		IsActive:    true,
		CreatedBy:   actor.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := database.CreateFreeze(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create freeze: %w", err)
	}

	// Backfill the annotation onto evaluations already stored for periods
	// inside the freeze window
	evals, err := database.GetEvaluations(ctx, db.EvaluationFilter{
		VolunteerID: volunteerID,
		FromPeriod:  startDate.Year()*12 + int(startDate.Month()) - 1,
		ToPeriod:    endDate.Year()*12 + int(endDate.Month()) - 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluations in freeze window: %w", err)
	}
	for _, eval := range evals {
		if err := database.SetEvaluationFreeze(ctx, eval.ID, startDate, endDate); err != nil {
			return nil, fmt.Errorf("failed to annotate evaluation %s: %w", eval.ID, err)
		}
	}

	logger.Info("Freeze applied",
		zap.String("volunteer_id", volunteerID),
		zap.Int("freeze_year", rec.FreezeYear),
		zap.Int("evaluations_annotated", len(evals)),
		zap.String("reason", reason))

	return rec, nil
}

// freezeCoversPeriod reports whether the freeze window includes any day of
// the given month
func freezeCoversPeriod(rec db.FreezeRecord, month, year int) bool {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	return rec.StartDate.Before(nextMonth) && !rec.EndDate.Before(monthStart)
}

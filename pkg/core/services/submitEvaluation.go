package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/scoring"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// SubmitEvaluationStore defines the database operations needed
type SubmitEvaluationStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	GetActiveCriteria(ctx context.Context, role string) ([]db.Criterion, error)
	GetActiveFreezes(ctx context.Context, volunteerID string) ([]db.FreezeRecord, error)
	GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error)
	InsertEvaluation(ctx context.Context, eval *db.Evaluation, details []db.EvaluationDetail) error
}

// SubmitEvaluation creates a new draft evaluation for a volunteer and period,
// resolving and aggregating the submitted criterion scores.
// It fails with db.ErrConflict when an evaluation already exists for the
// (volunteer, month, year) and with db.ErrValidation on duplicate criterion
// ids in the batch. Submitted ids matching no active, role-applicable
// criterion are skipped with a warning, not an error.
func SubmitEvaluation(
	ctx context.Context,
	database SubmitEvaluationStore,
	logger *zap.Logger,
	actor Actor,
	volunteerID string,
	month, year int,
	scores []scoring.SubmittedScore,
) (*db.Evaluation, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1-12, got %d: %w", month, db.ErrValidation)
	}

	logger.Debug("Submitting evaluation",
		zap.String("volunteer_id", volunteerID),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("score_count", len(scores)))

	volunteer, err := database.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	// One evaluation per (volunteer, month, year)
	period := year*12 + month - 1
	existing, err := database.GetEvaluations(ctx, db.EvaluationFilter{
		VolunteerID: volunteerID,
		FromPeriod:  period,
		ToPeriod:    period,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing evaluation: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("evaluation already exists for %d/%d: %w", month, year, db.ErrConflict)
	}

	criteria, err := database.GetActiveCriteria(ctx, volunteer.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch criteria: %w", err)
	}

	result, err := scoring.Aggregate(volunteer.Role, criteria, scores)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores: %w", err)
	}

	for _, id := range result.SkippedCriteriaIDs {
		logger.Warn("Skipping score for unknown or inactive criterion",
			zap.String("criteria_id", id),
			zap.String("volunteer_id", volunteerID))
	}

	now := time.Now().UTC()
	eval := &db.Evaluation{
		ID:               uuid.New().String(),
		VolunteerID:      volunteerID,
		EvaluatorID:      actor.ID,
		Month:            month,
		Year:             year,
		Status:           db.StatusDraft,
		TotalScore:       result.TotalScore,
		MaxPossibleScore: result.MaxPossibleScore,
		Percentage:       result.Percentage,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// Annotate the evaluation when an active freeze covers its period, so the
	// alert rules can tell exempted months from genuine absence
	freezes, err := database.GetActiveFreezes(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch freezes: %w", err)
	}
	for _, rec := range freezes {
		if freezeCoversPeriod(rec, month, year) {
			eval.IsFrozen = true
			eval.FreezeStart = &rec.StartDate
			eval.FreezeEnd = &rec.EndDate
			break
		}
	}

	details := buildDetails(eval.ID, result.Details)
	if err := database.InsertEvaluation(ctx, eval, details); err != nil {
		return nil, fmt.Errorf("failed to insert evaluation: %w", err)
	}

	logger.Info("Evaluation submitted",
		zap.String("evaluation_id", eval.ID),
		zap.String("volunteer_id", volunteerID),
		zap.Float64("percentage", eval.Percentage))

	return eval, nil
}

// buildDetails converts resolved scores into detail rows for one evaluation
func buildDetails(evaluationID string, resolved []scoring.ResolvedDetail) []db.EvaluationDetail {
	details := make([]db.EvaluationDetail, len(resolved))
	for i, r := range resolved {
		details[i] = db.EvaluationDetail{
			ID:           uuid.New().String(),
			EvaluationID: evaluationID,
			CriteriaID:   r.CriteriaID,
			RawValue:     r.RawValue,
			ScoreValue:   r.ScoreValue,
			WeightUsed:   r.WeightUsed,
		}
	}
	return details
}

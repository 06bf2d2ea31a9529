package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/scoring"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// UpdateEvaluationStore defines the database operations needed
type UpdateEvaluationStore interface {
	GetEvaluation(ctx context.Context, id string) (*db.Evaluation, error)
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	GetActiveCriteria(ctx context.Context, role string) ([]db.Criterion, error)
	ReplaceEvaluationDetails(ctx context.Context, eval *db.Evaluation, details []db.EvaluationDetail) error
}

// UpdateEvaluationScores re-aggregates an evaluation from a fresh score batch
// and replaces all of its details atomically; prior details are discarded,
// never merged. An evaluator may only edit their own draft evaluations
// (db.ErrUnauthorized for someone else's, db.ErrConflict once approved);
// elevated actors may edit any evaluation.
func UpdateEvaluationScores(
	ctx context.Context,
	database UpdateEvaluationStore,
	logger *zap.Logger,
	actor Actor,
	evaluationID string,
	scores []scoring.SubmittedScore,
) (*db.Evaluation, error) {
	logger.Debug("Updating evaluation scores",
		zap.String("evaluation_id", evaluationID),
		zap.Int("score_count", len(scores)))

	eval, err := database.GetEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluation: %w", err)
	}

	if !actor.IsElevated() {
		if eval.EvaluatorID != actor.ID {
			return nil, fmt.Errorf("evaluation %s belongs to another evaluator: %w", evaluationID, db.ErrUnauthorized)
		}
		if eval.Status == db.StatusApproved {
			return nil, fmt.Errorf("evaluation %s is already approved: %w", evaluationID, db.ErrConflict)
		}
	}

	volunteer, err := database.GetVolunteer(ctx, eval.VolunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer: %w", err)
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
			zap.String("evaluation_id", evaluationID))
	}

	eval.TotalScore = result.TotalScore
	eval.MaxPossibleScore = result.MaxPossibleScore
	eval.Percentage = result.Percentage
	eval.UpdatedAt = time.Now().UTC()

	details := buildDetails(eval.ID, result.Details)
	if err := database.ReplaceEvaluationDetails(ctx, eval, details); err != nil {
		return nil, fmt.Errorf("failed to replace evaluation details: %w", err)
	}

	logger.Info("Evaluation scores replaced",
		zap.String("evaluation_id", eval.ID),
		zap.Float64("percentage", eval.Percentage))

	return eval, nil
}

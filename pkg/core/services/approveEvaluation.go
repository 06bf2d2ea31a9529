package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// ApproveEvaluationStore defines the database operations needed
type ApproveEvaluationStore interface {
	GetEvaluation(ctx context.Context, id string) (*db.Evaluation, error)
	SetEvaluationStatus(ctx context.Context, id, status string) error
}

// ApproveEvaluation moves a draft evaluation to approved. Only elevated
// actors may approve; approving an already-approved evaluation is a conflict.
func ApproveEvaluation(
	ctx context.Context,
	database ApproveEvaluationStore,
	logger *zap.Logger,
	actor Actor,
	evaluationID string,
) error {
	if !actor.IsElevated() {
		return fmt.Errorf("role %s may not approve evaluations: %w", actor.Role, db.ErrUnauthorized)
	}

	eval, err := database.GetEvaluation(ctx, evaluationID)
	if err != nil {
		return fmt.Errorf("failed to fetch evaluation: %w", err)
	}

	if eval.Status == db.StatusApproved {
		return fmt.Errorf("evaluation %s is already approved: %w", evaluationID, db.ErrConflict)
	}

	if err := database.SetEvaluationStatus(ctx, evaluationID, db.StatusApproved); err != nil {
		return fmt.Errorf("failed to approve evaluation: %w", err)
	}

	logger.Info("Evaluation approved",
		zap.String("evaluation_id", evaluationID),
		zap.String("approved_by", actor.ID))

	return nil
}

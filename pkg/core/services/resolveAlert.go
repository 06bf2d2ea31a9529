package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// ResolveAlertStore defines the database operations needed
type ResolveAlertStore interface {
	GetAlert(ctx context.Context, id string) (*db.Alert, error)
	ResolveAlert(ctx context.Context, id, resolvedBy, notes string, resolvedAt time.Time, note *db.VolunteerNote) error
}

// ResolveAlert closes an alert and appends a cumulative note to the volunteer
// record summarizing the resolution. The note is written in the same
// transaction as the resolution; it is a mandated side effect, not optional.
// Resolving an already-resolved alert is a conflict.
func ResolveAlert(
	ctx context.Context,
	database ResolveAlertStore,
	logger *zap.Logger,
	actor Actor,
	alertID, resolutionNotes string,
) error {
	if resolutionNotes == "" {
		return fmt.Errorf("resolution notes are required: %w", db.ErrValidation)
	}

	alert, err := database.GetAlert(ctx, alertID)
	if err != nil {
		return fmt.Errorf("failed to fetch alert: %w", err)
	}
	if alert.IsResolved {
		return fmt.Errorf("alert %s is already resolved: %w", alertID, db.ErrConflict)
	}

	now := time.Now().UTC()
	note := &db.VolunteerNote{
		ID:          uuid.New().String(),
		VolunteerID: alert.VolunteerID,
		Note: fmt.Sprintf("Alert %s (%s) resolved: %s",
			alert.AlertType, alert.Severity, resolutionNotes),
		CreatedBy: actor.ID,
		CreatedAt: now,
	}

	if err := database.ResolveAlert(ctx, alertID, actor.ID, resolutionNotes, now, note); err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	logger.Info("Alert resolved",
		zap.String("alert_id", alertID),
		zap.String("resolved_by", actor.ID))

	return nil
}

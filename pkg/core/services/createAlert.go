package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

var validate = validator.New()

// CreateAlertInput carries the fields of a manually raised alert
type CreateAlertInput struct {
	VolunteerID string `validate:"required"`
	AlertType   string `validate:"required,oneof=weak_performance no_interaction improvement_needed achievement"`
	Severity    string `validate:"required,oneof=low medium high"`
	Message     string `validate:"required"`
}

// CreateAlertStore defines the database operations needed
type CreateAlertStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	InsertAlertIfNoneOpen(ctx context.Context, alert *db.Alert) (bool, error)
}

// CreateAlert raises an alert by direct operator action, bypassing the rule
// engine. Input is validated for required fields and enum membership only.
// The one-unresolved-alert-per-(volunteer, type) invariant still applies and
// yields db.ErrConflict.
func CreateAlert(
	ctx context.Context,
	database CreateAlertStore,
	logger *zap.Logger,
	actor Actor,
	input CreateAlertInput,
) (*db.Alert, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid alert input: %s: %w", err, db.ErrValidation)
	}

	if _, err := database.GetVolunteer(ctx, input.VolunteerID); err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	alert := &db.Alert{
		ID:          uuid.New().String(),
		VolunteerID: input.VolunteerID,
		AlertType:   input.AlertType,
		Severity:    input.Severity,
		Message:     input.Message,
		CreatedBy:   actor.ID,
		CreatedAt:   time.Now().UTC(),
	}

	ok, err := database.InsertAlertIfNoneOpen(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to insert alert: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("an unresolved %s alert already exists for volunteer %s: %w",
			input.AlertType, input.VolunteerID, db.ErrConflict)
	}

	logger.Info("Alert created",
		zap.String("alert_id", alert.ID),
		zap.String("volunteer_id", alert.VolunteerID),
		zap.String("alert_type", alert.AlertType))

	return alert, nil
}

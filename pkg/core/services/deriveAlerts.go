package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/alerts"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// historyWindowMonths is how far back evaluation history is loaded for the
// rule engine (the widest rule window)
const historyWindowMonths = 12

// detailWindowMonths is how far back per-evaluation details are loaded; only
// the non-interaction rule reads details and it looks at the trailing 2 months
const detailWindowMonths = 2

// DeriveAlertsStore defines the database operations needed
type DeriveAlertsStore interface {
	GetActiveCriteria(ctx context.Context, role string) ([]db.Criterion, error)
	GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error)
	GetEvaluationDetails(ctx context.Context, evaluationID string) ([]db.EvaluationDetail, error)
	InsertAlertIfNoneOpen(ctx context.Context, alert *db.Alert) (bool, error)
}

// AlertMailer sends alert notification emails
type AlertMailer interface {
	SendEmail(to, subject, body string) error
}

// DeriveAlerts scans approved evaluation history and raises the alerts the
// pattern rules call for. A candidate whose alert type is already open for
// the volunteer is dropped, so running this twice over unchanged history
// inserts nothing the second time. When mailer and notifyEmail are set, one
// notification is sent per inserted alert; notification failures are logged
// but do not fail the run.
func DeriveAlerts(
	ctx context.Context,
	database DeriveAlertsStore,
	mailer AlertMailer,
	logger *zap.Logger,
	actor Actor,
	now time.Time,
	notifyEmail string,
) ([]db.Alert, error) {
	logger.Debug("Deriving alerts", zap.Time("now", now))

	nowPeriod := now.Year()*12 + int(now.Month()) - 1

	evals, err := database.GetEvaluations(ctx, db.EvaluationFilter{
		Status:     db.StatusApproved,
		FromPeriod: nowPeriod - historyWindowMonths + 1,
		ToPeriod:   nowPeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluation history: %w", err)
	}

	history := make([]alerts.EvaluationRecord, 0, len(evals))
	for _, eval := range evals {
		rec := alerts.EvaluationRecord{Evaluation: eval}
		if eval.Period() > nowPeriod-detailWindowMonths {
			details, err := database.GetEvaluationDetails(ctx, eval.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch details for evaluation %s: %w", eval.ID, err)
			}
			rec.Details = details
		}
		history = append(history, rec)
	}

	criteria, err := database.GetActiveCriteria(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch criteria: %w", err)
	}

	candidates := alerts.DeriveAlerts(now, history, criteria)
	logger.Debug("Rule engine produced candidates", zap.Int("count", len(candidates)))

	var inserted []db.Alert
	for _, cand := range candidates {
		trigger, err := alerts.MarshalTrigger(cand.Trigger)
		if err != nil {
			return inserted, err
		}

		alert := db.Alert{
			ID:               uuid.New().String(),
			VolunteerID:      cand.VolunteerID,
			AlertType:        cand.AlertType,
			Severity:         cand.Severity,
			Message:          cand.Message,
			TriggerCondition: trigger,
			CreatedBy:        actor.ID,
			CreatedAt:        time.Now().UTC(),
		}

		ok, err := database.InsertAlertIfNoneOpen(ctx, &alert)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert alert: %w", err)
		}
		if !ok {
			logger.Debug("Alert already open, skipping",
				zap.String("volunteer_id", cand.VolunteerID),
				zap.String("alert_type", cand.AlertType))
			continue
		}
		inserted = append(inserted, alert)

		if mailer != nil && notifyEmail != "" {
			subject := fmt.Sprintf("Volunteer alert: %s (%s)", alert.AlertType, alert.Severity)
			body := fmt.Sprintf("Volunteer %s: %s", alert.VolunteerID, alert.Message)
			if err := mailer.SendEmail(notifyEmail, subject, body); err != nil {
				logger.Warn("Failed to send alert notification",
					zap.String("alert_id", alert.ID),
					zap.Error(err))
			}
		}
	}

	logger.Info("Alert derivation complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("inserted", len(inserted)))

	return inserted, nil
}

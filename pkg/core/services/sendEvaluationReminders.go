package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// ReminderResult reports which volunteers still need an evaluation for the
// current period
type ReminderResult struct {
	Month     int
	Year      int
	Missing   []db.Volunteer
	EmailSent bool
}

// SendRemindersStore defines the database operations needed
type SendRemindersStore interface {
	ListVolunteers(ctx context.Context, activeOnly bool) ([]db.Volunteer, error)
	GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error)
}

// SendEvaluationReminders finds active volunteers without an evaluation for
// the current period and emails the evaluation team a summary. The current
// period is the most recent occurrence of the configured RRULE schedule on or
// before now; if the schedule has not started yet, nothing is due.
func SendEvaluationReminders(
	ctx context.Context,
	database SendRemindersStore,
	mailer AlertMailer,
	logger *zap.Logger,
	schedule string,
	now time.Time,
	recipient string,
) (*ReminderResult, error) {
	rule, err := rrule.StrToRRule(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule: %w", err)
	}

	occurrence := rule.Before(now, true)
	if occurrence.IsZero() {
		logger.Info("No evaluation period due yet", zap.Time("now", now))
		return &ReminderResult{}, nil
	}

	month, year := int(occurrence.Month()), occurrence.Year()
	period := year*12 + month - 1

	logger.Debug("Checking evaluations for current period",
		zap.Int("month", month), zap.Int("year", year))

	volunteers, err := database.ListVolunteers(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	evals, err := database.GetEvaluations(ctx, db.EvaluationFilter{
		FromPeriod: period,
		ToPeriod:   period,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluations: %w", err)
	}

	evaluated := make(map[string]bool, len(evals))
	for _, e := range evals {
		evaluated[e.VolunteerID] = true
	}

	result := &ReminderResult{Month: month, Year: year}
	for _, v := range volunteers {
		if !evaluated[v.ID] {
			result.Missing = append(result.Missing, v)
		}
	}

	if len(result.Missing) == 0 {
		logger.Info("All active volunteers evaluated for period",
			zap.Int("month", month), zap.Int("year", year))
		return result, nil
	}

	if mailer != nil && recipient != "" {
		var lines []string
		for _, v := range result.Missing {
			lines = append(lines, fmt.Sprintf("- %s %s (%s)", v.FirstName, v.LastName, v.Role))
		}
		subject := fmt.Sprintf("Evaluation reminders for %d/%d", month, year)
		body := fmt.Sprintf("The following volunteers have no evaluation for %d/%d yet:\n\n%s\n",
			month, year, strings.Join(lines, "\n"))

		if err := mailer.SendEmail(recipient, subject, body); err != nil {
			return result, fmt.Errorf("failed to send reminder email: %w", err)
		}
		result.EmailSent = true
	}

	logger.Info("Evaluation reminders processed",
		zap.Int("missing", len(result.Missing)),
		zap.Bool("email_sent", result.EmailSent))

	return result, nil
}

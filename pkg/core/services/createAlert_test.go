package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// mockCreateAlertStore implements CreateAlertStore for testing
type mockCreateAlertStore struct {
	volunteer       *db.Volunteer
	inserted        *db.Alert
	alreadyOpen     bool
	getVolunteerErr error
	insertErr       error
}

func (m *mockCreateAlertStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	if m.getVolunteerErr != nil {
		return nil, m.getVolunteerErr
	}
	return m.volunteer, nil
}

func (m *mockCreateAlertStore) InsertAlertIfNoneOpen(ctx context.Context, alert *db.Alert) (bool, error) {
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if m.alreadyOpen {
		return false, nil
	}
	m.inserted = alert
	return true, nil
}

func TestCreateAlert_Success(t *testing.T) {
	store := &mockCreateAlertStore{volunteer: &db.Volunteer{ID: "vol-1"}}
	logger := zap.NewNop()
	actor := Actor{ID: "admin-1", Role: RoleAdmin}

	alert, err := CreateAlert(context.Background(), store, logger, actor, CreateAlertInput{
		VolunteerID: "vol-1",
		AlertType:   db.AlertAchievement,
		Severity:    db.SeverityLow,
		Message:     "Outstanding month",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, db.AlertAchievement, alert.AlertType)
	assert.Equal(t, "admin-1", alert.CreatedBy)
	assert.False(t, alert.IsResolved)
	assert.Empty(t, alert.TriggerCondition)
	require.NotNil(t, store.inserted)
}

func TestCreateAlert_InvalidType(t *testing.T) {
	store := &mockCreateAlertStore{volunteer: &db.Volunteer{ID: "vol-1"}}
	logger := zap.NewNop()

	_, err := CreateAlert(context.Background(), store, logger, Actor{ID: "a"}, CreateAlertInput{
		VolunteerID: "vol-1",
		AlertType:   "made_up_type",
		Severity:    db.SeverityLow,
		Message:     "msg",
	})
	assert.ErrorIs(t, err, db.ErrValidation)
}

func TestCreateAlert_MissingMessage(t *testing.T) {
	store := &mockCreateAlertStore{volunteer: &db.Volunteer{ID: "vol-1"}}
	logger := zap.NewNop()

	_, err := CreateAlert(context.Background(), store, logger, Actor{ID: "a"}, CreateAlertInput{
		VolunteerID: "vol-1",
		AlertType:   db.AlertImprovementNeeded,
		Severity:    db.SeverityMedium,
	})
	assert.ErrorIs(t, err, db.ErrValidation)
}

func TestCreateAlert_DuplicateOpenConflict(t *testing.T) {
	store := &mockCreateAlertStore{
		volunteer:   &db.Volunteer{ID: "vol-1"},
		alreadyOpen: true,
	}
	logger := zap.NewNop()

	_, err := CreateAlert(context.Background(), store, logger, Actor{ID: "a"}, CreateAlertInput{
		VolunteerID: "vol-1",
		AlertType:   db.AlertWeakPerformance,
		Severity:    db.SeverityHigh,
		Message:     "msg",
	})
	assert.ErrorIs(t, err, db.ErrConflict)
}

func TestCreateAlert_VolunteerNotFound(t *testing.T) {
	store := &mockCreateAlertStore{getVolunteerErr: db.ErrNotFound}
	logger := zap.NewNop()

	_, err := CreateAlert(context.Background(), store, logger, Actor{ID: "a"}, CreateAlertInput{
		VolunteerID: "missing",
		AlertType:   db.AlertAchievement,
		Severity:    db.SeverityLow,
		Message:     "msg",
	})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

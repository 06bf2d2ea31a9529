package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// mockResolveAlertStore implements ResolveAlertStore for testing
type mockResolveAlertStore struct {
	alert        *db.Alert
	resolvedID   string
	resolvedBy   string
	notes        string
	writtenNote  *db.VolunteerNote
	getAlertErr  error
	resolveErr   error
}

func (m *mockResolveAlertStore) GetAlert(ctx context.Context, id string) (*db.Alert, error) {
	if m.getAlertErr != nil {
		return nil, m.getAlertErr
	}
	return m.alert, nil
}

func (m *mockResolveAlertStore) ResolveAlert(ctx context.Context, id, resolvedBy, notes string, resolvedAt time.Time, note *db.VolunteerNote) error {
	if m.resolveErr != nil {
		return m.resolveErr
	}
	m.resolvedID = id
	m.resolvedBy = resolvedBy
	m.notes = notes
	m.writtenNote = note
	return nil
}

func TestResolveAlert_Success(t *testing.T) {
	store := &mockResolveAlertStore{
		alert: &db.Alert{
			ID: "alert-1", VolunteerID: "vol-1",
			AlertType: db.AlertWeakPerformance, Severity: db.SeverityHigh,
		},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "sup-1", Role: RoleSupervisor}

	err := ResolveAlert(context.Background(), store, logger, actor, "alert-1", "coached through 1:1 sessions")
	require.NoError(t, err)

	assert.Equal(t, "alert-1", store.resolvedID)
	assert.Equal(t, "sup-1", store.resolvedBy)
	assert.Equal(t, "coached through 1:1 sessions", store.notes)

	// Resolution appends a cumulative note to the volunteer record
	require.NotNil(t, store.writtenNote)
	assert.Equal(t, "vol-1", store.writtenNote.VolunteerID)
	assert.Contains(t, store.writtenNote.Note, db.AlertWeakPerformance)
	assert.Contains(t, store.writtenNote.Note, "coached through 1:1 sessions")
	assert.Equal(t, "sup-1", store.writtenNote.CreatedBy)
}

func TestResolveAlert_NotesRequired(t *testing.T) {
	store := &mockResolveAlertStore{alert: &db.Alert{ID: "alert-1"}}
	logger := zap.NewNop()

	err := ResolveAlert(context.Background(), store, logger, Actor{ID: "a"}, "alert-1", "")
	assert.ErrorIs(t, err, db.ErrValidation)
	assert.Empty(t, store.resolvedID)
}

func TestResolveAlert_AlreadyResolvedConflict(t *testing.T) {
	store := &mockResolveAlertStore{
		alert: &db.Alert{ID: "alert-1", IsResolved: true},
	}
	logger := zap.NewNop()

	err := ResolveAlert(context.Background(), store, logger, Actor{ID: "a"}, "alert-1", "notes")
	assert.ErrorIs(t, err, db.ErrConflict)
}

func TestResolveAlert_NotFound(t *testing.T) {
	store := &mockResolveAlertStore{getAlertErr: db.ErrNotFound}
	logger := zap.NewNop()

	err := ResolveAlert(context.Background(), store, logger, Actor{ID: "a"}, "missing", "notes")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

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

// mockFreezeStore implements ApplyFreezeStore for testing
type mockFreezeStore struct {
	volunteer       *db.Volunteer
	activeCount     int
	evals           []db.Evaluation
	created         *db.FreezeRecord
	frozenEvalIDs   []string
	getVolunteerErr error
	createErr       error
}

func (m *mockFreezeStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	if m.getVolunteerErr != nil {
		return nil, m.getVolunteerErr
	}
	return m.volunteer, nil
}

func (m *mockFreezeStore) CountActiveFreezes(ctx context.Context, volunteerID string, year int) (int, error) {
	return m.activeCount, nil
}

func (m *mockFreezeStore) CreateFreeze(ctx context.Context, rec *db.FreezeRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = rec
	return nil
}

func (m *mockFreezeStore) GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error) {
	var out []db.Evaluation
	for _, e := range m.evals {
		p := e.Period()
		if p >= filter.FromPeriod && p <= filter.ToPeriod {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockFreezeStore) SetEvaluationFreeze(ctx context.Context, id string, start, end time.Time) error {
	m.frozenEvalIDs = append(m.frozenEvalIDs, id)
	return nil
}

func TestApplyFreeze_Success(t *testing.T) {
	store := &mockFreezeStore{
		volunteer: &db.Volunteer{ID: "vol-1"},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "admin-1", Role: RoleAdmin}

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rec, err := ApplyFreeze(context.Background(), store, logger, actor, "vol-1", "medical leave", start, end)
	require.NoError(t, err)

	assert.Equal(t, "vol-1", rec.VolunteerID)
	assert.Equal(t, 2026, rec.FreezeYear)
	assert.True(t, rec.IsActive)
	assert.Equal(t, "admin-1", rec.CreatedBy)
	require.NotNil(t, store.created)
}

func TestApplyFreeze_AnnotatesEvaluationsInWindow(t *testing.T) {
	store := &mockFreezeStore{
		volunteer: &db.Volunteer{ID: "vol-1"},
		evals: []db.Evaluation{
			{ID: "eval-jun", VolunteerID: "vol-1", Month: 6, Year: 2026},
			{ID: "eval-jul", VolunteerID: "vol-1", Month: 7, Year: 2026},
			{ID: "eval-sep", VolunteerID: "vol-1", Month: 9, Year: 2026},
		},
	}
	logger := zap.NewNop()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := ApplyFreeze(context.Background(), store, logger, Actor{ID: "admin-1"}, "vol-1", "medical leave", start, end)
	require.NoError(t, err)

	// Only the evaluation whose period falls inside the freeze window is stamped
	assert.Equal(t, []string{"eval-jul"}, store.frozenEvalIDs)
}

func TestFreezeCoversPeriod(t *testing.T) {
	rec := db.FreezeRecord{
		StartDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, freezeCoversPeriod(rec, 6, 2026), "partial month at the start counts")
	assert.True(t, freezeCoversPeriod(rec, 7, 2026))
	assert.True(t, freezeCoversPeriod(rec, 8, 2026), "partial month at the end counts")
	assert.False(t, freezeCoversPeriod(rec, 5, 2026))
	assert.False(t, freezeCoversPeriod(rec, 9, 2026))
}

func TestApplyFreeze_MissingReason(t *testing.T) {
	store := &mockFreezeStore{volunteer: &db.Volunteer{ID: "vol-1"}}
	logger := zap.NewNop()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := ApplyFreeze(context.Background(), store, logger, Actor{ID: "a"}, "vol-1", "", start, end)
	assert.ErrorIs(t, err, db.ErrValidation)
}

func TestApplyFreeze_MissingDates(t *testing.T) {
	store := &mockFreezeStore{volunteer: &db.Volunteer{ID: "vol-1"}}
	logger := zap.NewNop()

	_, err := ApplyFreeze(context.Background(), store, logger, Actor{ID: "a"}, "vol-1", "reason", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, db.ErrValidation)
}

func TestApplyFreeze_EndBeforeStart(t *testing.T) {
	store := &mockFreezeStore{volunteer: &db.Volunteer{ID: "vol-1"}}
	logger := zap.NewNop()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := ApplyFreeze(context.Background(), store, logger, Actor{ID: "a"}, "vol-1", "reason", start, end)
	assert.ErrorIs(t, err, db.ErrValidation)
}

func TestApplyFreeze_CapReachedConflict(t *testing.T) {
	// The store enforces the annual cap transactionally
	store := &mockFreezeStore{
		volunteer: &db.Volunteer{ID: "vol-1"},
		createErr: db.ErrConflict,
	}
	logger := zap.NewNop()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := ApplyFreeze(context.Background(), store, logger, Actor{ID: "a"}, "vol-1", "third freeze", start, end)
	assert.ErrorIs(t, err, db.ErrConflict)
}

func TestCanFreeze(t *testing.T) {
	store := &mockFreezeStore{activeCount: 0}
	ok, err := CanFreeze(context.Background(), store, "vol-1", 2026)
	require.NoError(t, err)
	assert.True(t, ok)

	store.activeCount = db.MaxFreezesPerYear
	ok, err = CanFreeze(context.Background(), store, "vol-1", 2026)
	require.NoError(t, err)
	assert.False(t, ok)
}

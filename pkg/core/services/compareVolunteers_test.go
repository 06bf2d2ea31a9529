package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/analytics"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// mockCompareStore implements CompareVolunteersStore for testing
type mockCompareStore struct {
	volunteers map[string]*db.Volunteer
	evals      map[string][]db.Evaluation
}

func (m *mockCompareStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	if v, ok := m.volunteers[id]; ok {
		return v, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockCompareStore) GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error) {
	var out []db.Evaluation
	for _, e := range m.evals[filter.VolunteerID] {
		p := e.Period()
		if p < filter.FromPeriod || p > filter.ToPeriod {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func approvedAt(volunteerID string, month, year int, percentage float64) db.Evaluation {
	return db.Evaluation{
		VolunteerID: volunteerID, Month: month, Year: year,
		Status: db.StatusApproved, Percentage: percentage,
	}
}

func TestCompareVolunteers_Success(t *testing.T) {
	store := &mockCompareStore{
		volunteers: map[string]*db.Volunteer{
			"vol-1": {ID: "vol-1", FirstName: "Amina", Role: "helper"},
			"vol-2": {ID: "vol-2", FirstName: "Omar", Role: "mentor"},
		},
		evals: map[string][]db.Evaluation{
			"vol-1": {
				approvedAt("vol-1", 1, 2026, 50),
				approvedAt("vol-1", 2, 2026, 50),
				approvedAt("vol-1", 3, 2026, 70),
				approvedAt("vol-1", 4, 2026, 70),
			},
			"vol-2": {
				approvedAt("vol-2", 1, 2026, 80),
				approvedAt("vol-2", 2, 2026, 80),
				approvedAt("vol-2", 3, 2026, 80),
			},
		},
	}
	logger := zap.NewNop()

	comparisons, err := CompareVolunteers(context.Background(), store, logger, []string{"vol-1", "vol-2"}, 2026)
	require.NoError(t, err)
	require.Len(t, comparisons, 2)

	first := comparisons[0]
	assert.Equal(t, "vol-1", first.Volunteer.ID)
	assert.Equal(t, 4, first.EvaluationCount)
	assert.Equal(t, 60.0, first.MeanPercentage)
	assert.Equal(t, analytics.TrendImproving, first.Trend)

	second := comparisons[1]
	assert.Equal(t, 3, second.EvaluationCount)
	assert.Equal(t, 80.0, second.MeanPercentage)
	assert.Equal(t, 100.0, second.Consistency)
	assert.Equal(t, analytics.TrendStable, second.Trend)
}

func TestCompareVolunteers_InsufficientDataTrend(t *testing.T) {
	store := &mockCompareStore{
		volunteers: map[string]*db.Volunteer{
			"vol-1": {ID: "vol-1"},
		},
		evals: map[string][]db.Evaluation{
			"vol-1": {
				approvedAt("vol-1", 1, 2026, 75),
				approvedAt("vol-1", 2, 2026, 80),
			},
		},
	}
	logger := zap.NewNop()

	comparisons, err := CompareVolunteers(context.Background(), store, logger, []string{"vol-1"}, 2026)
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.Equal(t, analytics.TrendInsufficientData, comparisons[0].Trend)
}

func TestCompareVolunteers_ExcludesOtherYears(t *testing.T) {
	store := &mockCompareStore{
		volunteers: map[string]*db.Volunteer{"vol-1": {ID: "vol-1"}},
		evals: map[string][]db.Evaluation{
			"vol-1": {
				approvedAt("vol-1", 11, 2025, 40),
				approvedAt("vol-1", 12, 2025, 40),
				approvedAt("vol-1", 1, 2026, 90),
			},
		},
	}
	logger := zap.NewNop()

	comparisons, err := CompareVolunteers(context.Background(), store, logger, []string{"vol-1"}, 2026)
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.Equal(t, 1, comparisons[0].EvaluationCount)
	assert.Equal(t, 90.0, comparisons[0].MeanPercentage)
}

func TestCompareVolunteers_UnknownVolunteer(t *testing.T) {
	store := &mockCompareStore{volunteers: map[string]*db.Volunteer{}}
	logger := zap.NewNop()

	_, err := CompareVolunteers(context.Background(), store, logger, []string{"missing"}, 2026)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// mockDeriveStore implements DeriveAlertsStore for testing
type mockDeriveStore struct {
	evals     []db.Evaluation
	details   map[string][]db.EvaluationDetail
	criteria  []db.Criterion
	openTypes map[string]bool // volunteerID+alertType already open
	inserted  []db.Alert
}

func (m *mockDeriveStore) GetEvaluations(ctx context.Context, filter db.EvaluationFilter) ([]db.Evaluation, error) {
	var out []db.Evaluation
	for _, e := range m.evals {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		p := e.Period()
		if p < filter.FromPeriod || p > filter.ToPeriod {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockDeriveStore) GetEvaluationDetails(ctx context.Context, evaluationID string) ([]db.EvaluationDetail, error) {
	return m.details[evaluationID], nil
}

func (m *mockDeriveStore) GetActiveCriteria(ctx context.Context, role string) ([]db.Criterion, error) {
	return m.criteria, nil
}

func (m *mockDeriveStore) InsertAlertIfNoneOpen(ctx context.Context, alert *db.Alert) (bool, error) {
	key := alert.VolunteerID + "/" + alert.AlertType
	if m.openTypes[key] {
		return false, nil
	}
	if m.openTypes == nil {
		m.openTypes = make(map[string]bool)
	}
	m.openTypes[key] = true
	m.inserted = append(m.inserted, *alert)
	return true, nil
}

// mockMailer implements AlertMailer for testing
type mockMailer struct {
	sent    []string
	sendErr error
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, subject)
	return nil
}

func deriveNow() time.Time {
	return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
}

func lowEval(id, volunteerID string, month int) db.Evaluation {
	return db.Evaluation{
		ID: id, VolunteerID: volunteerID, Month: month, Year: 2026,
		Status: db.StatusApproved, Percentage: 50,
	}
}

func TestDeriveAlerts_InsertsWeakPerformanceAlert(t *testing.T) {
	store := &mockDeriveStore{
		evals: []db.Evaluation{
			lowEval("e1", "vol-1", 3),
			lowEval("e2", "vol-1", 4),
			lowEval("e3", "vol-1", 5),
		},
		openTypes: map[string]bool{},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	inserted, err := DeriveAlerts(context.Background(), store, nil, logger, actor, deriveNow(), "")
	require.NoError(t, err)

	require.Len(t, inserted, 1)
	assert.Equal(t, db.AlertWeakPerformance, inserted[0].AlertType)
	assert.Equal(t, "vol-1", inserted[0].VolunteerID)
	assert.NotEmpty(t, inserted[0].TriggerCondition)
}

func TestDeriveAlerts_IdempotentSecondRun(t *testing.T) {
	store := &mockDeriveStore{
		evals: []db.Evaluation{
			lowEval("e1", "vol-1", 3),
			lowEval("e2", "vol-1", 4),
			lowEval("e3", "vol-1", 5),
		},
		openTypes: map[string]bool{},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	first, err := DeriveAlerts(context.Background(), store, nil, logger, actor, deriveNow(), "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := DeriveAlerts(context.Background(), store, nil, logger, actor, deriveNow(), "")
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, store.inserted, 1)
}

func TestDeriveAlerts_SkipsAlreadyOpenAlert(t *testing.T) {
	store := &mockDeriveStore{
		evals: []db.Evaluation{
			lowEval("e1", "vol-1", 3),
			lowEval("e2", "vol-1", 4),
			lowEval("e3", "vol-1", 5),
		},
		openTypes: map[string]bool{"vol-1/" + db.AlertWeakPerformance: true},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	inserted, err := DeriveAlerts(context.Background(), store, nil, logger, actor, deriveNow(), "")
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestDeriveAlerts_SendsNotificationEmail(t *testing.T) {
	store := &mockDeriveStore{
		evals: []db.Evaluation{
			lowEval("e1", "vol-1", 3),
			lowEval("e2", "vol-1", 4),
			lowEval("e3", "vol-1", 5),
		},
		openTypes: map[string]bool{},
	}
	mailer := &mockMailer{}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	inserted, err := DeriveAlerts(context.Background(), store, mailer, logger, actor, deriveNow(), "team@example.org")
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestDeriveAlerts_EmailFailureDoesNotFailRun(t *testing.T) {
	store := &mockDeriveStore{
		evals: []db.Evaluation{
			lowEval("e1", "vol-1", 3),
			lowEval("e2", "vol-1", 4),
			lowEval("e3", "vol-1", 5),
		},
		openTypes: map[string]bool{},
	}
	mailer := &mockMailer{sendErr: errors.New("smtp down")}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	inserted, err := DeriveAlerts(context.Background(), store, mailer, logger, actor, deriveNow(), "team@example.org")
	require.NoError(t, err)
	assert.Len(t, inserted, 1)
}

func TestDeriveAlerts_NoInteractionUsesDetails(t *testing.T) {
	evalMay := db.Evaluation{
		ID: "e-may", VolunteerID: "vol-2", Month: 5, Year: 2026,
		Status: db.StatusApproved, Percentage: 85,
	}
	evalJun := db.Evaluation{
		ID: "e-jun", VolunteerID: "vol-2", Month: 6, Year: 2026,
		Status: db.StatusApproved, Percentage: 85,
	}

	store := &mockDeriveStore{
		evals: []db.Evaluation{evalMay, evalJun},
		details: map[string][]db.EvaluationDetail{
			"e-may": {{CriteriaID: "c-int", ScoreValue: 1}},
			"e-jun": {{CriteriaID: "c-int", ScoreValue: 2}},
		},
		criteria:  []db.Criterion{{ID: "c-int", Name: "Beneficiary interaction", IsActive: true}},
		openTypes: map[string]bool{},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	inserted, err := DeriveAlerts(context.Background(), store, nil, logger, actor, deriveNow(), "")
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, db.AlertNoInteraction, inserted[0].AlertType)
	assert.Equal(t, db.SeverityMedium, inserted[0].Severity)
}

func TestDeriveAlerts_QuietHistory(t *testing.T) {
	store := &mockDeriveStore{
		evals: []db.Evaluation{
			{ID: "e1", VolunteerID: "vol-1", Month: 5, Year: 2026, Status: db.StatusApproved, Percentage: 90},
		},
		criteria:  []db.Criterion{{ID: "c-int", Name: "Interaction", IsActive: true}},
		details:   map[string][]db.EvaluationDetail{"e1": {{CriteriaID: "c-int", ScoreValue: 5}}},
		openTypes: map[string]bool{},
	}
	logger := zap.NewNop()
	actor := Actor{ID: "system", Role: RoleAdmin}

	inserted, err := DeriveAlerts(context.Background(), store, nil, logger, actor, deriveNow(), "")
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

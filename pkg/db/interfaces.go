package db

import (
	"context"
	"time"
)

// EvaluationFilter narrows evaluation history queries. Zero values mean
// "no filter"; FromPeriod/ToPeriod are inclusive year*12+month-1 indices.
type EvaluationFilter struct {
	VolunteerID   string
	Status        string
	FromPeriod    int
	ToPeriod      int
	ExcludeFrozen bool
}

// VolunteerStore defines volunteer lookup and cumulative-note operations
type VolunteerStore interface {
	GetVolunteer(ctx context.Context, id string) (*Volunteer, error)
	ListVolunteers(ctx context.Context, activeOnly bool) ([]Volunteer, error)
	InsertVolunteer(ctx context.Context, volunteer *Volunteer) error
	InsertVolunteerNote(ctx context.Context, note *VolunteerNote) error
}

// CriterionStore defines criterion definition lookups.
// Results are ordered by category then sort order. An empty role returns all
// active criteria regardless of role applicability.
type CriterionStore interface {
	GetActiveCriteria(ctx context.Context, role string) ([]Criterion, error)
	InsertCriterion(ctx context.Context, criterion *Criterion) error
}

// EvaluationStore defines evaluation and detail persistence.
// InsertEvaluation and ReplaceEvaluationDetails write the evaluation row and
// its full detail batch as a single atomic unit.
type EvaluationStore interface {
	GetEvaluation(ctx context.Context, id string) (*Evaluation, error)
	InsertEvaluation(ctx context.Context, eval *Evaluation, details []EvaluationDetail) error
	ReplaceEvaluationDetails(ctx context.Context, eval *Evaluation, details []EvaluationDetail) error
	SetEvaluationStatus(ctx context.Context, id, status string) error
	SetEvaluationFreeze(ctx context.Context, id string, start, end time.Time) error
	GetEvaluations(ctx context.Context, filter EvaluationFilter) ([]Evaluation, error)
	GetEvaluationDetails(ctx context.Context, evaluationID string) ([]EvaluationDetail, error)
}

// FreezeStore defines freeze record operations.
// CreateFreeze enforces the MaxFreezesPerYear cap transactionally and returns
// ErrConflict when the cap is reached.
type FreezeStore interface {
	CountActiveFreezes(ctx context.Context, volunteerID string, year int) (int, error)
	GetActiveFreezes(ctx context.Context, volunteerID string) ([]FreezeRecord, error)
	CreateFreeze(ctx context.Context, rec *FreezeRecord) error
}

// AlertStore defines alert persistence.
// InsertAlertIfNoneOpen atomically checks the one-unresolved-alert-per-
// (volunteer, type) invariant and reports whether the alert was inserted.
// ResolveAlert stamps the resolution fields and appends the volunteer note in
// the same transaction.
type AlertStore interface {
	GetAlert(ctx context.Context, id string) (*Alert, error)
	ListAlerts(ctx context.Context, volunteerID string, unresolvedOnly bool) ([]Alert, error)
	InsertAlertIfNoneOpen(ctx context.Context, alert *Alert) (bool, error)
	ResolveAlert(ctx context.Context, id, resolvedBy, notes string, resolvedAt time.Time, note *VolunteerNote) error
}

// Database defines the interface for all database operations.
// Both the postgres.DB and sqlite.DB backends implement this interface.
type Database interface {
	VolunteerStore
	CriterionStore
	EvaluationStore
	FreezeStore
	AlertStore
}

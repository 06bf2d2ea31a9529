package db

import (
	"encoding/json"
	"time"
)

// Criterion categories
const (
	CategoryBasic          = "basic"
	CategoryResponsibility = "responsibility"
	CategoryBonus          = "bonus"
)

// Criterion data types
const (
	DataTypeNumeric = "numeric"
	DataTypeBoolean = "boolean"
	DataTypeChoice  = "choice"
	DataTypeText    = "text"
)

// RoleAll marks a criterion as applicable to every volunteer role
const RoleAll = "all"

// Evaluation statuses
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Alert types
const (
	AlertWeakPerformance   = "weak_performance"
	AlertNoInteraction     = "no_interaction"
	AlertImprovementNeeded = "improvement_needed"
	AlertAchievement       = "achievement"
)

// Alert severities
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// MaxFreezesPerYear is the annual cap on active freeze records per volunteer
const MaxFreezesPerYear = 2

// Volunteer represents a volunteer record
type Volunteer struct {
	ID        string
	FirstName string
	LastName  string
	Role      string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

// VolunteerNote is one entry in a volunteer's cumulative notes (append-only)
type VolunteerNote struct {
	ID          string
	VolunteerID string
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}

// Criterion represents a scorable dimension of volunteer performance.
// ChoiceValues maps choice labels to numeric scores for choice criteria.
type Criterion struct {
	ID            string
	Name          string
	Category      string
	DataType      string
	MaxScore      float64
	Weight        float64
	AppliesToRole string
	ChoiceValues  map[string]float64
	SortOrder     int
	IsActive      bool
}

// AppliesTo reports whether the criterion applies to the given volunteer role
func (c *Criterion) AppliesTo(role string) bool {
	return c.AppliesToRole == RoleAll || c.AppliesToRole == role
}

// Evaluation represents one volunteer's scored evaluation for a month.
// At most one evaluation exists per (volunteer, month, year).
type Evaluation struct {
	ID               string
	VolunteerID      string
	EvaluatorID      string
	Month            int
	Year             int
	Status           string
	TotalScore       float64
	MaxPossibleScore float64
	Percentage       float64
	IsFrozen         bool
	FreezeStart      *time.Time
	FreezeEnd        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Period returns a comparable month index (year*12 + month-1) for range filters
func (e *Evaluation) Period() int {
	return e.Year*12 + e.Month - 1
}

// EvaluationDetail is one resolved criterion score within an evaluation.
// Details are written as a batch and replaced as a batch, never merged.
// WeightUsed snapshots the criterion weight at evaluation time.
type EvaluationDetail struct {
	ID           string
	EvaluationID string
	CriteriaID   string
	RawValue     string
	ScoreValue   float64
	WeightUsed   float64
}

// FreezeRecord represents an approved exemption period for a volunteer
type FreezeRecord struct {
	ID          string
	VolunteerID string
	FreezeYear  int
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
	IsActive    bool
	CreatedBy   string
	CreatedAt   time.Time
}

// Alert represents a performance flag, either rule-derived or manually raised.
// TriggerCondition holds the JSON-encoded rule inputs that fired the alert
// (empty for manual alerts). At most one unresolved alert may exist per
// (volunteer, alert type).
type Alert struct {
	ID               string
	VolunteerID      string
	AlertType        string
	Severity         string
	Message          string
	TriggerCondition json.RawMessage
	IsResolved       bool
	ResolvedBy       *string
	ResolvedAt       *time.Time
	ResolutionNotes  string
	CreatedBy        string
	CreatedAt        time.Time
}

package alerts

import (
	"encoding/json"
	"fmt"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// TriggerCondition is the structured snapshot of the rule inputs that fired
// an alert. Each rule has its own fixed-shape variant rather than a free-form
// blob; the variant is tagged by the alert type it belongs to.
type TriggerCondition interface {
	AlertType() string
}

// WeakPerformanceTrigger records the inputs of the weak-performance rule
type WeakPerformanceTrigger struct {
	// Months is the number of qualifying low-percentage evaluations found
	Months int `json:"months"`

	// Threshold is the percentage below which an evaluation qualifies
	Threshold float64 `json:"threshold"`
}

// AlertType returns the alert type this trigger belongs to
func (WeakPerformanceTrigger) AlertType() string { return db.AlertWeakPerformance }

// NoInteractionTrigger records the inputs of the non-interaction rule
type NoInteractionTrigger struct {
	// Months is the number of qualifying non-interaction months found
	Months int `json:"months"`

	// Threshold is the interaction score below which a month qualifies
	Threshold float64 `json:"threshold"`
}

// AlertType returns the alert type this trigger belongs to
func (NoInteractionTrigger) AlertType() string { return db.AlertNoInteraction }

// MarshalTrigger encodes a trigger condition for storage on an alert record
func MarshalTrigger(t TriggerCondition) (json.RawMessage, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger condition: %w", err)
	}
	return data, nil
}

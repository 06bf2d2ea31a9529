package alerts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// Weak-performance rule parameters: at least 3 approved evaluations below 60%
// within the trailing 12 months.
const (
	WeakPerformanceThreshold = 60.0
	weakPerformanceMinCount  = 3
	weakPerformanceWindow    = 12
)

// Non-interaction rule parameters: at least 2 months within the trailing 2
// whose interaction-labeled score is missing or below 3 (approved, non-frozen
// evaluations only).
const (
	InteractionScoreThreshold = 3.0
	noInteractionMinCount     = 2
	noInteractionWindow       = 2
)

// interactionLabel marks the criteria the non-interaction rule inspects
const interactionLabel = "interaction"

// EvaluationRecord bundles one evaluation with its resolved details for rule
// scanning
type EvaluationRecord struct {
	Evaluation db.Evaluation
	Details    []db.EvaluationDetail
}

// Candidate is an alert a rule wants to raise. Persistence and the
// one-unresolved-alert-per-(volunteer, type) check are the caller's job.
type Candidate struct {
	VolunteerID string
	AlertType   string
	Severity    string
	Message     string
	Trigger     TriggerCondition
}

// DeriveAlerts scans evaluation history and returns the alerts the pattern
// rules want to raise, ordered by volunteer id then alert type. It is pure:
// running it twice over the same history yields the same candidates, and the
// caller suppresses candidates whose alert type is already open for the
// volunteer.
//
// now anchors the trailing windows: the weak-performance rule looks at the 12
// months ending in now's month, the non-interaction rule at the trailing 2.
func DeriveAlerts(now time.Time, history []EvaluationRecord, criteria []db.Criterion) []Candidate {
	nowPeriod := now.Year()*12 + int(now.Month()) - 1

	candidates := deriveWeakPerformance(nowPeriod, history)
	candidates = append(candidates, deriveNoInteraction(nowPeriod, history, criteria)...)

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].VolunteerID != candidates[j].VolunteerID {
			return candidates[i].VolunteerID < candidates[j].VolunteerID
		}
		return candidates[i].AlertType < candidates[j].AlertType
	})
	return candidates
}

// deriveWeakPerformance implements the consecutive-low-performance rule
func deriveWeakPerformance(nowPeriod int, history []EvaluationRecord) []Candidate {
	lowCounts := make(map[string]int)
	for _, rec := range history {
		eval := rec.Evaluation
		if eval.Status != db.StatusApproved {
			continue
		}
		if !inWindow(eval.Period(), nowPeriod, weakPerformanceWindow) {
			continue
		}
		if eval.Percentage < WeakPerformanceThreshold {
			lowCounts[eval.VolunteerID]++
		}
	}

	var candidates []Candidate
	for volunteerID, count := range lowCounts {
		if count < weakPerformanceMinCount {
			continue
		}
		candidates = append(candidates, Candidate{
			VolunteerID: volunteerID,
			AlertType:   db.AlertWeakPerformance,
			Severity:    db.SeverityHigh,
			Message: fmt.Sprintf("%d evaluations below %.0f%% in the trailing %d months",
				count, WeakPerformanceThreshold, weakPerformanceWindow),
			Trigger: WeakPerformanceTrigger{Months: count, Threshold: WeakPerformanceThreshold},
		})
	}
	return candidates
}

// deriveNoInteraction implements the sustained-non-interaction rule
func deriveNoInteraction(nowPeriod int, history []EvaluationRecord, criteria []db.Criterion) []Candidate {
	interactionIDs := interactionCriteriaIDs(criteria)
	if len(interactionIDs) == 0 {
		return nil
	}

	// qualifying months per volunteer: an evaluation month counts when its
	// interaction score is absent or below the threshold
	monthCounts := make(map[string]int)
	for _, rec := range history {
		eval := rec.Evaluation
		if eval.Status != db.StatusApproved || eval.IsFrozen {
			continue
		}
		if !inWindow(eval.Period(), nowPeriod, noInteractionWindow) {
			continue
		}
		if monthLacksInteraction(rec.Details, interactionIDs) {
			monthCounts[eval.VolunteerID]++
		}
	}

	var candidates []Candidate
	for volunteerID, count := range monthCounts {
		if count < noInteractionMinCount {
			continue
		}
		candidates = append(candidates, Candidate{
			VolunteerID: volunteerID,
			AlertType:   db.AlertNoInteraction,
			Severity:    db.SeverityMedium,
			Message: fmt.Sprintf("no meaningful interaction recorded for %d of the trailing %d months",
				count, noInteractionWindow),
			Trigger: NoInteractionTrigger{Months: count, Threshold: InteractionScoreThreshold},
		})
	}
	return candidates
}

// interactionCriteriaIDs returns the ids of criteria whose name carries the
// interaction label (case-insensitive substring match)
func interactionCriteriaIDs(criteria []db.Criterion) map[string]bool {
	ids := make(map[string]bool)
	for _, c := range criteria {
		if strings.Contains(strings.ToLower(c.Name), interactionLabel) {
			ids[c.ID] = true
		}
	}
	return ids
}

// monthLacksInteraction reports whether an evaluation's interaction score is
// missing or below the threshold. A missing detail row counts the same as a
// low score.
func monthLacksInteraction(details []db.EvaluationDetail, interactionIDs map[string]bool) bool {
	found := false
	for _, d := range details {
		if !interactionIDs[d.CriteriaID] {
			continue
		}
		found = true
		if d.ScoreValue < InteractionScoreThreshold {
			return true
		}
	}
	return !found
}

// inWindow reports whether a period index falls within the trailing window of
// the given number of months ending at nowPeriod (inclusive)
func inWindow(period, nowPeriod, months int) bool {
	return period > nowPeriod-months && period <= nowPeriod
}

package scoring

import "github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"

// SubmittedScore is one raw criterion input within an evaluation submission.
// Value is the verbatim submitted text; the resolver parses it according to
// the criterion's data type.
type SubmittedScore struct {
	CriteriaID string
	Value      string
}

// ResolvedDetail is one criterion score after resolution, ready to persist
// as an evaluation detail. WeightUsed snapshots the criterion weight so later
// weight changes don't rewrite history.
type ResolvedDetail struct {
	CriteriaID string
	RawValue   string
	ScoreValue float64
	WeightUsed float64
}

// Result is the outcome of aggregating one evaluation's submitted scores
type Result struct {
	// TotalScore is the sum of weighted resolved scores
	TotalScore float64

	// MaxPossibleScore is the sum of weighted criterion max scores for the
	// criteria that were actually scored
	MaxPossibleScore float64

	// Percentage is TotalScore/MaxPossibleScore*100 rounded to 2 decimal
	// places, or 0 when MaxPossibleScore is 0
	Percentage float64

	// Details are the resolved per-criterion scores, in submission order
	Details []ResolvedDetail

	// SkippedCriteriaIDs lists submitted ids that matched no active,
	// role-applicable criterion. Skipped inputs are excluded from both totals;
	// they are not an error (callers log them)
	SkippedCriteriaIDs []string
}

// Registry holds the criterion definitions for one aggregation pass.
// Definitions are treated as immutable while the registry is in use.
type Registry struct {
	criteria []db.Criterion
	byID     map[string]*db.Criterion
}

// NewRegistry builds a registry restricted to criteria that are active and
// applicable to the given volunteer role. Input order (category, then sort
// order, as the stores return them) is preserved.
func NewRegistry(criteria []db.Criterion, role string) *Registry {
	r := &Registry{}
	for _, c := range criteria {
		if !c.IsActive || !c.AppliesTo(role) {
			continue
		}
		r.criteria = append(r.criteria, c)
	}
	r.byID = make(map[string]*db.Criterion, len(r.criteria))
	for i := range r.criteria {
		r.byID[r.criteria[i].ID] = &r.criteria[i]
	}
	return r
}

// Lookup returns the criterion with the given id, or nil if it is not in the
// registry (unknown, inactive, or not applicable to the role)
func (r *Registry) Lookup(id string) *db.Criterion {
	return r.byID[id]
}

// Criteria returns the registry's criteria in store order
func (r *Registry) Criteria() []db.Criterion {
	return r.criteria
}

// Len returns the number of criteria in the registry
func (r *Registry) Len() int {
	return len(r.criteria)
}

package services

// Volunteer/operator roles with elevated privileges
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

// Actor identifies the acting user for an operation. It is passed explicitly
// rather than carried in ambient state; services use it to stamp
// evaluator/created_by fields and to authorize edits and approvals.
type Actor struct {
	ID   string
	Role string
}

// IsElevated reports whether the actor may edit any evaluation and approve
// evaluations. Non-elevated actors may only edit their own draft evaluations.
func (a Actor) IsElevated() bool {
	return a.Role == RoleAdmin || a.Role == RoleSupervisor
}

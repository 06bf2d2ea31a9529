package db

import "errors"

// Error kinds shared by the stores and the service layer.
// Callers classify failures with errors.Is after unwrapping.
var (
	// ErrNotFound indicates a referenced volunteer, criterion, evaluation or
	// alert does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or cap violation: duplicate
	// evaluation for a period, freeze cap exceeded, alert already open, or an
	// edit attempt on an approved evaluation
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates missing required fields or out-of-range enum
	// values
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates the acting user may not perform the operation
	ErrUnauthorized = errors.New("unauthorized")
)

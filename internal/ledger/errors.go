package ledger

import "fmt"

// ValidationError marks user-correctable input problems (missing fields,
// malformed or non-positive amounts). Surfaced as a 400 at the boundary.
type ValidationError struct {
	Field  string // The offending form field
	Reason string // Human-readable reason
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError marks records that are absent or owned by another user.
// The two cases are deliberately indistinguishable so that existence of
// other users' records never leaks.
type NotFoundError struct {
	Kind string // Record kind: cash entry, expense
	ID   uint   // Requested record ID
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ConflictError marks uniqueness collisions (username or email already
// taken). Surfaced as a 409 at the boundary.
type ConflictError struct {
	Field string // The colliding field
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

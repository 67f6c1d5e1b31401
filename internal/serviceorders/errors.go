package serviceorders

import "errors"

var (
	// ErrNotFound indicates the requested service order does not exist.
	ErrNotFound = errors.New("service order not found")

	// ErrGuardViolation indicates a finalization or confirmation action was
	// attempted out of sequence. The order is left untouched.
	ErrGuardViolation = errors.New("action not allowed in current state")

	// ErrChecklistItemNotFound indicates the toggled checklist item id is
	// not on the order.
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)

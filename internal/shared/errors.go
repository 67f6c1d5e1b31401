package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrLocked indicates another mutation holds the order lock.
	ErrLocked = errors.New("order is locked by another operation")
)

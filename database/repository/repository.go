package repository

import "errors"

// Shared storage sentinels. Area repositories wrap these so callers can map
// storage outcomes onto the engine's error taxonomy with errors.Is.
var (
	// ErrNotFound signals the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a write lost to a concurrent writer (overlapping
	// booking interval, stale status precondition, duplicate pending request).
	ErrConflict = errors.New("conflict")
)

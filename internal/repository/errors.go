package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (ride number, license plate, email). Retryable only for
	// generated values.
	ErrDuplicate = errors.New("duplicate identifier")

	// ErrVersionConflict is returned when a compare-and-swap update loses a
	// race against a concurrent writer. Callers must re-fetch and re-decide.
	ErrVersionConflict = errors.New("entity version conflict")
)

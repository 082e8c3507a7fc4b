package documents

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when a document with the given ID already exists.
	ErrConflict = errors.New("document already exists")
)

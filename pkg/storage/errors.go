package storage

import "errors"

var (
	// ErrNotFound is returned when no blob exists under a key.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied is returned when the process cannot read or write a key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey is returned for empty keys and keys that escape the base path.
	ErrInvalidKey = errors.New("storage: invalid key")
)

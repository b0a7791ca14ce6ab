package storage

import "errors"

// StoreError kinds. Backends wrap their I/O errors into one of these so callers
// can decide how to surface them without knowing the backend.
var (
	// ErrPermissionDenied is returned when the backend rejects the caller's credentials.
	ErrPermissionDenied = errors.New("store permission denied")

	// ErrIndexMissing is returned when a table or secondary index the query needs does not exist.
	ErrIndexMissing = errors.New("store index missing")

	// ErrUnavailable is returned for any other failure to reach or use the backend.
	ErrUnavailable = errors.New("store unavailable")
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConditionFailed is returned when a conditional write lost against the record's current state.
var ErrConditionFailed = errors.New("conditional write failed")

// ErrAlreadyExists is returned when a create would overwrite an existing record.
var ErrAlreadyExists = errors.New("record already exists")

package apperror

import "errors"

// Sentinel errors shared by services and mapped to HTTP statuses in the
// controllers. Slug collisions during creation are retried inside the form
// service and never reach this package's callers.
var (
	// ErrNotFound covers unknown ids and slugs, including slugs of forms
	// that are not published (those are indistinguishable from missing ones
	// on the public side).
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed request payloads, such as an empty
	// form title.
	ErrValidation = errors.New("validation failed")

	// ErrCapabilityUnavailable is returned when an optional encoding
	// capability (spreadsheet export) cannot produce output.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)

package services

import "errors"

// Failure taxonomy shared by the tracking stores and the HTTP layer.
// Controllers translate these to response codes; nothing here retries.
var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else, so responses never leak another user's data.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTracking is returned when the owner already tracks the target.
	ErrDuplicateTracking = errors.New("target is already tracked")

	// ErrInvalidStatus is returned for status tokens outside the domain's enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrValidation is returned for malformed field values.
	ErrValidation = errors.New("validation failed")

	// ErrVersionConflict is returned when an update carries a stale expected version.
	ErrVersionConflict = errors.New("version conflict")
)

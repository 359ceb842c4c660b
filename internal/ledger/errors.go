// Package ledger holds the split and ledger rules of SplitPal: even split
// allocation, viewer-relative views of a transaction, counterparty resolution
// and ranking, and edit authorization. Nothing here touches storage.
package ledger

import "errors"

var (
	// ErrNotFound is returned when a transaction, split, group or user id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized is returned when the actor may not perform an edit.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrGroupResolution is returned when a group member cannot be resolved to a user,
	// or when a group resolves to no members at all.
	ErrGroupResolution = errors.New("group members could not be resolved")

	// ErrValidation is returned for malformed identifiers and other rejected input.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientCredits is returned when a user with no group credits tries to create a group.
	ErrInsufficientCredits = errors.New("no group credits remaining")

	// ErrAlreadyExists is returned when signing up with a phone number that is taken.
	ErrAlreadyExists = errors.New("already exists")
)

package access

import "errors"

var (
	// ErrAccessNotFound is returned when no access record exists for the triple
	ErrAccessNotFound = errors.New("access record not found")

	// ErrAccessRevoked is returned when an operation requires a non-revoked record
	ErrAccessRevoked = errors.New("access has been revoked")
)

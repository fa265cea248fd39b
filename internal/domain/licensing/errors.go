package licensing

import "errors"

var (
	// ErrSubscriptionNotFound is returned when a subscription is not found
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrAssignmentNotFound is returned when an assignment is not found
	ErrAssignmentNotFound = errors.New("license assignment not found")

	// ErrUserAlreadyHasLicense is returned on a duplicate grant attempt
	ErrUserAlreadyHasLicense = errors.New("user already has a license for this application")

	// ErrNoSeatsAvailable is returned when capacity is exhausted or a
	// conditional increment lost a race. Callers cannot distinguish the two.
	ErrNoSeatsAvailable = errors.New("no seats available")

	// ErrQuantityBelowAssigned is returned when shrinking purchased quantity below the assigned count
	ErrQuantityBelowAssigned = errors.New("purchased quantity cannot be less than assigned count")

	// ErrSameLicenseType is returned when a change-type request targets the current type
	ErrSameLicenseType = errors.New("assignment already has this license type")

	// ErrSubscriptionNotUsable is returned when an operation requires an ACTIVE/TRIALING subscription
	ErrSubscriptionNotUsable = errors.New("subscription is not active")
)

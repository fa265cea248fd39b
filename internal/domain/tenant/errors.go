package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant is not found
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrMembershipNotFound is returned when a membership is not found
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrMemberLimitReached is returned when the tenant's member limit is exhausted
	ErrMemberLimitReached = errors.New("tenant member limit reached")
)

// Package access provides the domain model for app access records: the
// binary authorization answer per (tenant, user, application), independent
// of how access was obtained.
package access

// AccessType records the provenance of an access grant
type AccessType string

const (
	// AccessTypeGranted indicates access backed by an explicit seat assignment
	AccessTypeGranted AccessType = "GRANTED"
	// AccessTypeAutoFree indicates automatic access to a FREE-mode application
	AccessTypeAutoFree AccessType = "AUTO_FREE"
	// AccessTypeAutoTenant indicates automatic access to a TENANT_WIDE application
	AccessTypeAutoTenant AccessType = "AUTO_TENANT"
	// AccessTypeAutoOwner indicates access granted to the tenant owner on provisioning
	AccessTypeAutoOwner AccessType = "AUTO_OWNER"
)

// IsValid checks if the access type is valid
func (t AccessType) IsValid() bool {
	switch t {
	case AccessTypeGranted, AccessTypeAutoFree, AccessTypeAutoTenant, AccessTypeAutoOwner:
		return true
	default:
		return false
	}
}

// String returns the string representation of the access type
func (t AccessType) String() string {
	return string(t)
}

// AccessStatus represents the status of an access record.
// Access checks consult only the status; the access type explains provenance.
type AccessStatus string

const (
	// AccessStatusActive indicates the user may use the application
	AccessStatusActive AccessStatus = "ACTIVE"
	// AccessStatusRevoked indicates access was withdrawn
	AccessStatusRevoked AccessStatus = "REVOKED"
	// AccessStatusSuspended indicates access is temporarily withheld
	AccessStatusSuspended AccessStatus = "SUSPENDED"
)

// IsValid checks if the access status is valid
func (s AccessStatus) IsValid() bool {
	switch s {
	case AccessStatusActive, AccessStatusRevoked, AccessStatusSuspended:
		return true
	default:
		return false
	}
}

// String returns the string representation of the access status
func (s AccessStatus) String() string {
	return string(s)
}

// IsActive checks if the status grants access
func (s AccessStatus) IsActive() bool {
	return s == AccessStatusActive
}

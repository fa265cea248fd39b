// Package catalog provides domain models for the application catalog:
// the applications consuming the platform and the license types they sell.
package catalog

// LicensingMode represents how access to an application is gated
type LicensingMode string

const (
	// LicensingModeFree grants access without consuming seats
	LicensingModeFree LicensingMode = "FREE"
	// LicensingModePerSeat gates access on individual seat assignments
	LicensingModePerSeat LicensingMode = "PER_SEAT"
	// LicensingModeTenantWide grants access to every tenant member up to the member limit
	LicensingModeTenantWide LicensingMode = "TENANT_WIDE"
)

// IsValid checks if the licensing mode is valid
func (m LicensingMode) IsValid() bool {
	switch m {
	case LicensingModeFree, LicensingModePerSeat, LicensingModeTenantWide:
		return true
	default:
		return false
	}
}

// String returns the string representation of the licensing mode
func (m LicensingMode) String() string {
	return string(m)
}

// ConsumesSeats reports whether assignments under this mode consume pool capacity
func (m LicensingMode) ConsumesSeats() bool {
	return m == LicensingModePerSeat
}

// AccessMode represents whether new tenants receive inventory automatically
type AccessMode string

const (
	// AccessModeAutomatic provisions inventory for every new tenant
	AccessModeAutomatic AccessMode = "AUTOMATIC"
	// AccessModeManualAutoGrant requires manual enablement, then grants defaults
	AccessModeManualAutoGrant AccessMode = "MANUAL_AUTO_GRANT"
	// AccessModeManualNoDefault requires manual enablement with no default grants
	AccessModeManualNoDefault AccessMode = "MANUAL_NO_DEFAULT"
	// AccessModeDisabled blocks new inventory entirely
	AccessModeDisabled AccessMode = "DISABLED"
)

// IsValid checks if the access mode is valid
func (m AccessMode) IsValid() bool {
	switch m {
	case AccessModeAutomatic, AccessModeManualAutoGrant, AccessModeManualNoDefault, AccessModeDisabled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the access mode
func (m AccessMode) String() string {
	return string(m)
}

// LicenseTypeStatus represents the lifecycle status of a license type
type LicenseTypeStatus string

const (
	// LicenseTypeStatusDraft indicates the type is not yet sellable
	LicenseTypeStatusDraft LicenseTypeStatus = "DRAFT"
	// LicenseTypeStatusActive indicates the type may receive new subscriptions
	LicenseTypeStatusActive LicenseTypeStatus = "ACTIVE"
	// LicenseTypeStatusHidden indicates the type is sellable but not listed
	LicenseTypeStatusHidden LicenseTypeStatus = "HIDDEN"
	// LicenseTypeStatusArchived indicates the type is retired
	LicenseTypeStatusArchived LicenseTypeStatus = "ARCHIVED"
)

// IsValid checks if the license type status is valid
func (s LicenseTypeStatus) IsValid() bool {
	switch s {
	case LicenseTypeStatusDraft, LicenseTypeStatusActive, LicenseTypeStatusHidden, LicenseTypeStatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of the license type status
func (s LicenseTypeStatus) String() string {
	return string(s)
}

// IsActive checks if the status allows new subscriptions
func (s LicenseTypeStatus) IsActive() bool {
	return s == LicenseTypeStatusActive
}

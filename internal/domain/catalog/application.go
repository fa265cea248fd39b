package catalog

import (
	"fmt"
	"time"
)

// Application represents a consuming system registered in the platform.
// Licensing and access modes are configured by administrators; request
// handling treats the aggregate as read-only.
type Application struct {
	id                   uint
	sid                  string
	name                 string
	licensingMode        LicensingMode
	accessMode           AccessMode
	defaultLicenseTypeID *uint
	defaultSeatCount     int
	autoGrantToOwner     bool
	createdAt            time.Time
	updatedAt            time.Time
}

// NewApplication creates a new application
func NewApplication(
	sid string,
	name string,
	licensingMode LicensingMode,
	accessMode AccessMode,
	defaultLicenseTypeID *uint,
	defaultSeatCount int,
	autoGrantToOwner bool,
) (*Application, error) {
	if sid == "" {
		return nil, fmt.Errorf("application SID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("application name is required")
	}
	if !licensingMode.IsValid() {
		return nil, fmt.Errorf("invalid licensing mode: %s", licensingMode)
	}
	if !accessMode.IsValid() {
		return nil, fmt.Errorf("invalid access mode: %s", accessMode)
	}
	if defaultSeatCount < 0 {
		return nil, fmt.Errorf("default seat count cannot be negative")
	}

	now := time.Now()
	return &Application{
		sid:                  sid,
		name:                 name,
		licensingMode:        licensingMode,
		accessMode:           accessMode,
		defaultLicenseTypeID: defaultLicenseTypeID,
		defaultSeatCount:     defaultSeatCount,
		autoGrantToOwner:     autoGrantToOwner,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// ReconstructApplication reconstructs an application from persistence
func ReconstructApplication(
	id uint,
	sid string,
	name string,
	licensingMode LicensingMode,
	accessMode AccessMode,
	defaultLicenseTypeID *uint,
	defaultSeatCount int,
	autoGrantToOwner bool,
	createdAt, updatedAt time.Time,
) (*Application, error) {
	if id == 0 {
		return nil, fmt.Errorf("application ID cannot be zero")
	}
	if !licensingMode.IsValid() {
		return nil, fmt.Errorf("invalid licensing mode: %s", licensingMode)
	}
	if !accessMode.IsValid() {
		return nil, fmt.Errorf("invalid access mode: %s", accessMode)
	}

	return &Application{
		id:                   id,
		sid:                  sid,
		name:                 name,
		licensingMode:        licensingMode,
		accessMode:           accessMode,
		defaultLicenseTypeID: defaultLicenseTypeID,
		defaultSeatCount:     defaultSeatCount,
		autoGrantToOwner:     autoGrantToOwner,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

// ID returns the application ID
func (a *Application) ID() uint {
	return a.id
}

// SID returns the application short ID
func (a *Application) SID() string {
	return a.sid
}

// Name returns the application name
func (a *Application) Name() string {
	return a.name
}

// LicensingMode returns the licensing mode
func (a *Application) LicensingMode() LicensingMode {
	return a.licensingMode
}

// AccessMode returns the access mode
func (a *Application) AccessMode() AccessMode {
	return a.accessMode
}

// DefaultLicenseTypeID returns the default license type for new tenants
func (a *Application) DefaultLicenseTypeID() *uint {
	return a.defaultLicenseTypeID
}

// DefaultSeatCount returns the default purchased quantity for PER_SEAT provisioning
func (a *Application) DefaultSeatCount() int {
	return a.defaultSeatCount
}

// AutoGrantToOwner reports whether the tenant owner receives a seat on provisioning
func (a *Application) AutoGrantToOwner() bool {
	return a.autoGrantToOwner
}

// CreatedAt returns when the application was created
func (a *Application) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the application was last updated
func (a *Application) UpdatedAt() time.Time {
	return a.updatedAt
}

// SetID sets the application ID (only for persistence layer use)
func (a *Application) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("application ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("application ID cannot be zero")
	}
	a.id = id
	return nil
}

// IsAccessDisabled reports whether new inventory is blocked for this application
func (a *Application) IsAccessDisabled() bool {
	return a.accessMode == AccessModeDisabled
}

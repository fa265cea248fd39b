package catalog

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// LicenseType represents one sellable tier of an application.
// Its features map drives feature checks; maxMembers bounds tenant
// membership under FREE and TENANT_WIDE licensing modes (nil = unlimited).
type LicenseType struct {
	id            uint
	sid           string
	applicationID uint
	name          string
	slug          string
	features      map[string]bool
	maxMembers    *int
	status        LicenseTypeStatus
	displayOrder  int
	createdAt     time.Time
	updatedAt     time.Time
}

// NewLicenseType creates a new license type. The slug is derived from the
// name when not provided.
func NewLicenseType(
	sid string,
	applicationID uint,
	name string,
	slugValue string,
	features map[string]bool,
	maxMembers *int,
	status LicenseTypeStatus,
	displayOrder int,
) (*LicenseType, error) {
	if sid == "" {
		return nil, fmt.Errorf("license type SID is required")
	}
	if applicationID == 0 {
		return nil, fmt.Errorf("application ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("license type name is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid license type status: %s", status)
	}
	if maxMembers != nil && *maxMembers < 1 {
		return nil, fmt.Errorf("max members must be at least 1 when set")
	}

	if slugValue == "" {
		slugValue = slug.Make(name)
	}
	if features == nil {
		features = make(map[string]bool)
	}

	now := time.Now()
	return &LicenseType{
		sid:           sid,
		applicationID: applicationID,
		name:          name,
		slug:          slugValue,
		features:      features,
		maxMembers:    maxMembers,
		status:        status,
		displayOrder:  displayOrder,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructLicenseType reconstructs a license type from persistence
func ReconstructLicenseType(
	id uint,
	sid string,
	applicationID uint,
	name string,
	slugValue string,
	features map[string]bool,
	maxMembers *int,
	status LicenseTypeStatus,
	displayOrder int,
	createdAt, updatedAt time.Time,
) (*LicenseType, error) {
	if id == 0 {
		return nil, fmt.Errorf("license type ID cannot be zero")
	}
	if applicationID == 0 {
		return nil, fmt.Errorf("application ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid license type status: %s", status)
	}

	if features == nil {
		features = make(map[string]bool)
	}

	return &LicenseType{
		id:            id,
		sid:           sid,
		applicationID: applicationID,
		name:          name,
		slug:          slugValue,
		features:      features,
		maxMembers:    maxMembers,
		status:        status,
		displayOrder:  displayOrder,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ID returns the license type ID
func (lt *LicenseType) ID() uint {
	return lt.id
}

// SID returns the license type short ID
func (lt *LicenseType) SID() string {
	return lt.sid
}

// ApplicationID returns the owning application ID
func (lt *LicenseType) ApplicationID() uint {
	return lt.applicationID
}

// Name returns the license type name
func (lt *LicenseType) Name() string {
	return lt.name
}

// Slug returns the URL-safe slug
func (lt *LicenseType) Slug() string {
	return lt.slug
}

// Features returns the feature-key map
func (lt *LicenseType) Features() map[string]bool {
	return lt.features
}

// MaxMembers returns the member limit (nil = unlimited)
func (lt *LicenseType) MaxMembers() *int {
	return lt.maxMembers
}

// Status returns the license type status
func (lt *LicenseType) Status() LicenseTypeStatus {
	return lt.status
}

// DisplayOrder returns the listing order
func (lt *LicenseType) DisplayOrder() int {
	return lt.displayOrder
}

// CreatedAt returns when the license type was created
func (lt *LicenseType) CreatedAt() time.Time {
	return lt.createdAt
}

// UpdatedAt returns when the license type was last updated
func (lt *LicenseType) UpdatedAt() time.Time {
	return lt.updatedAt
}

// SetID sets the license type ID (only for persistence layer use)
func (lt *LicenseType) SetID(id uint) error {
	if lt.id != 0 {
		return fmt.Errorf("license type ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("license type ID cannot be zero")
	}
	lt.id = id
	return nil
}

// BelongsTo checks if the license type belongs to the given application
func (lt *LicenseType) BelongsTo(applicationID uint) bool {
	return lt.applicationID == applicationID
}

// HasFeature checks if a feature key is enabled for this type
func (lt *LicenseType) HasFeature(key string) bool {
	return lt.features[key]
}

// IsUnlimited reports whether the type has no member limit
func (lt *LicenseType) IsUnlimited() bool {
	return lt.maxMembers == nil
}

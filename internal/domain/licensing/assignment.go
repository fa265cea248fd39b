package licensing

import (
	"fmt"
	"time"
)

// LicenseAssignment represents one seat consumed by one user for one
// (tenant, application). At most one assignment exists per
// (tenant, user, application); the row is hard-deleted on revoke so a
// re-grant can reuse the unique key.
type LicenseAssignment struct {
	id              uint
	sid             string
	tenantID        uint
	userID          uint
	applicationID   uint
	subscriptionID  uint
	licenseTypeID   uint
	licenseTypeName string
	assignedAt      time.Time
	assignedByID    *uint
	createdAt       time.Time
	updatedAt       time.Time
}

// NewLicenseAssignment creates a new license assignment
func NewLicenseAssignment(
	sid string,
	tenantID, userID, applicationID, subscriptionID, licenseTypeID uint,
	licenseTypeName string,
	assignedByID *uint,
) (*LicenseAssignment, error) {
	if sid == "" {
		return nil, fmt.Errorf("assignment SID is required")
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if applicationID == 0 {
		return nil, fmt.Errorf("application ID is required")
	}
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if licenseTypeID == 0 {
		return nil, fmt.Errorf("license type ID is required")
	}

	now := time.Now()
	return &LicenseAssignment{
		sid:             sid,
		tenantID:        tenantID,
		userID:          userID,
		applicationID:   applicationID,
		subscriptionID:  subscriptionID,
		licenseTypeID:   licenseTypeID,
		licenseTypeName: licenseTypeName,
		assignedAt:      now,
		assignedByID:    assignedByID,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructLicenseAssignment reconstructs an assignment from persistence
func ReconstructLicenseAssignment(
	id uint,
	sid string,
	tenantID, userID, applicationID, subscriptionID, licenseTypeID uint,
	licenseTypeName string,
	assignedAt time.Time,
	assignedByID *uint,
	createdAt, updatedAt time.Time,
) (*LicenseAssignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if tenantID == 0 || userID == 0 || applicationID == 0 {
		return nil, fmt.Errorf("tenant, user and application IDs are required")
	}
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}

	return &LicenseAssignment{
		id:              id,
		sid:             sid,
		tenantID:        tenantID,
		userID:          userID,
		applicationID:   applicationID,
		subscriptionID:  subscriptionID,
		licenseTypeID:   licenseTypeID,
		licenseTypeName: licenseTypeName,
		assignedAt:      assignedAt,
		assignedByID:    assignedByID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

// ID returns the assignment ID
func (a *LicenseAssignment) ID() uint {
	return a.id
}

// SID returns the assignment short ID
func (a *LicenseAssignment) SID() string {
	return a.sid
}

// TenantID returns the tenant ID
func (a *LicenseAssignment) TenantID() uint {
	return a.tenantID
}

// UserID returns the holder's user ID
func (a *LicenseAssignment) UserID() uint {
	return a.userID
}

// ApplicationID returns the application ID
func (a *LicenseAssignment) ApplicationID() uint {
	return a.applicationID
}

// SubscriptionID returns the subscription whose seat this assignment consumes
func (a *LicenseAssignment) SubscriptionID() uint {
	return a.subscriptionID
}

// LicenseTypeID returns the license type ID
func (a *LicenseAssignment) LicenseTypeID() uint {
	return a.licenseTypeID
}

// LicenseTypeName returns the denormalized license type name
func (a *LicenseAssignment) LicenseTypeName() string {
	return a.licenseTypeName
}

// AssignedAt returns when the seat was assigned
func (a *LicenseAssignment) AssignedAt() time.Time {
	return a.assignedAt
}

// AssignedByID returns the actor who assigned the seat
func (a *LicenseAssignment) AssignedByID() *uint {
	return a.assignedByID
}

// CreatedAt returns when the assignment was created
func (a *LicenseAssignment) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the assignment was last updated
func (a *LicenseAssignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// SetID sets the assignment ID (only for persistence layer use)
func (a *LicenseAssignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

// ChangeType moves the assignment to a different subscription and license
// type in place, refreshing assignedAt. The seat counter adjustments happen
// in the repository within the same transaction.
func (a *LicenseAssignment) ChangeType(newSubscriptionID, newLicenseTypeID uint, newLicenseTypeName string) error {
	if newSubscriptionID == 0 {
		return fmt.Errorf("subscription ID is required")
	}
	if newLicenseTypeID == 0 {
		return fmt.Errorf("license type ID is required")
	}
	if newLicenseTypeID == a.licenseTypeID {
		return ErrSameLicenseType
	}

	now := time.Now()
	a.subscriptionID = newSubscriptionID
	a.licenseTypeID = newLicenseTypeID
	a.licenseTypeName = newLicenseTypeName
	a.assignedAt = now
	a.updatedAt = now
	return nil
}

package licensing

import (
	"fmt"
	"time"
)

// AuditEntry is an append-only record of a license action. Entries are
// write-once: there is no update path, and persistence failures must never
// roll back the state change they describe.
type AuditEntry struct {
	id                    uint
	sid                   string
	tenantID              uint
	userID                uint
	applicationID         uint
	action                AuditAction
	licenseTypeID         uint
	licenseTypeName       string
	previousLicenseTypeID *uint
	actorID               *uint
	createdAt             time.Time
}

// NewAuditEntry creates a new audit entry
func NewAuditEntry(
	sid string,
	tenantID, userID, applicationID uint,
	action AuditAction,
	licenseTypeID uint,
	licenseTypeName string,
	previousLicenseTypeID *uint,
	actorID *uint,
) (*AuditEntry, error) {
	if sid == "" {
		return nil, fmt.Errorf("audit entry SID is required")
	}
	if tenantID == 0 || userID == 0 || applicationID == 0 {
		return nil, fmt.Errorf("tenant, user and application IDs are required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid audit action: %s", action)
	}

	return &AuditEntry{
		sid:                   sid,
		tenantID:              tenantID,
		userID:                userID,
		applicationID:         applicationID,
		action:                action,
		licenseTypeID:         licenseTypeID,
		licenseTypeName:       licenseTypeName,
		previousLicenseTypeID: previousLicenseTypeID,
		actorID:               actorID,
		createdAt:             time.Now(),
	}, nil
}

// ReconstructAuditEntry reconstructs an audit entry from persistence
func ReconstructAuditEntry(
	id uint,
	sid string,
	tenantID, userID, applicationID uint,
	action AuditAction,
	licenseTypeID uint,
	licenseTypeName string,
	previousLicenseTypeID *uint,
	actorID *uint,
	createdAt time.Time,
) (*AuditEntry, error) {
	if id == 0 {
		return nil, fmt.Errorf("audit entry ID cannot be zero")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid audit action: %s", action)
	}

	return &AuditEntry{
		id:                    id,
		sid:                   sid,
		tenantID:              tenantID,
		userID:                userID,
		applicationID:         applicationID,
		action:                action,
		licenseTypeID:         licenseTypeID,
		licenseTypeName:       licenseTypeName,
		previousLicenseTypeID: previousLicenseTypeID,
		actorID:               actorID,
		createdAt:             createdAt,
	}, nil
}

// ID returns the audit entry ID
func (e *AuditEntry) ID() uint {
	return e.id
}

// SID returns the audit entry short ID
func (e *AuditEntry) SID() string {
	return e.sid
}

// TenantID returns the tenant ID
func (e *AuditEntry) TenantID() uint {
	return e.tenantID
}

// UserID returns the target user ID
func (e *AuditEntry) UserID() uint {
	return e.userID
}

// ApplicationID returns the application ID
func (e *AuditEntry) ApplicationID() uint {
	return e.applicationID
}

// Action returns the recorded action
func (e *AuditEntry) Action() AuditAction {
	return e.action
}

// LicenseTypeID returns the license type involved
func (e *AuditEntry) LicenseTypeID() uint {
	return e.licenseTypeID
}

// LicenseTypeName returns the denormalized license type name
func (e *AuditEntry) LicenseTypeName() string {
	return e.licenseTypeName
}

// PreviousLicenseTypeID returns the prior type for CHANGED actions
func (e *AuditEntry) PreviousLicenseTypeID() *uint {
	return e.previousLicenseTypeID
}

// ActorID returns the acting user, if known
func (e *AuditEntry) ActorID() *uint {
	return e.actorID
}

// CreatedAt returns when the entry was recorded
func (e *AuditEntry) CreatedAt() time.Time {
	return e.createdAt
}

// SetID sets the audit entry ID (only for persistence layer use)
func (e *AuditEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("audit entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("audit entry ID cannot be zero")
	}
	e.id = id
	return nil
}

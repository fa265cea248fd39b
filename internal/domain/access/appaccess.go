package access

import (
	"fmt"
	"time"
)

// AppAccess represents the authorization record for one
// (tenant, user, application) triple. Rows are never hard-deleted outside
// tenant cascades: revocation and suspension are status transitions, and a
// later grant reactivates the existing row in place.
type AppAccess struct {
	id            uint
	sid           string
	tenantID      uint
	userID        uint
	applicationID uint
	accessType    AccessType
	status        AccessStatus
	grantedAt     time.Time
	grantedByID   *uint
	revokedAt     *time.Time
	revokedByID   *uint
	assignmentID  *uint
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

// NewAppAccess creates a new ACTIVE access record
func NewAppAccess(
	sid string,
	tenantID, userID, applicationID uint,
	accessType AccessType,
	grantedByID *uint,
	assignmentID *uint,
) (*AppAccess, error) {
	if sid == "" {
		return nil, fmt.Errorf("access SID is required")
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
	if !accessType.IsValid() {
		return nil, fmt.Errorf("invalid access type: %s", accessType)
	}

	now := time.Now()
	return &AppAccess{
		sid:           sid,
		tenantID:      tenantID,
		userID:        userID,
		applicationID: applicationID,
		accessType:    accessType,
		status:        AccessStatusActive,
		grantedAt:     now,
		grantedByID:   grantedByID,
		assignmentID:  assignmentID,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructAppAccess reconstructs an access record from persistence
func ReconstructAppAccess(
	id uint,
	sid string,
	tenantID, userID, applicationID uint,
	accessType AccessType,
	status AccessStatus,
	grantedAt time.Time,
	grantedByID *uint,
	revokedAt *time.Time,
	revokedByID *uint,
	assignmentID *uint,
	version int,
	createdAt, updatedAt time.Time,
) (*AppAccess, error) {
	if id == 0 {
		return nil, fmt.Errorf("access ID cannot be zero")
	}
	if tenantID == 0 || userID == 0 || applicationID == 0 {
		return nil, fmt.Errorf("tenant, user and application IDs are required")
	}
	if !accessType.IsValid() {
		return nil, fmt.Errorf("invalid access type: %s", accessType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid access status: %s", status)
	}

	return &AppAccess{
		id:            id,
		sid:           sid,
		tenantID:      tenantID,
		userID:        userID,
		applicationID: applicationID,
		accessType:    accessType,
		status:        status,
		grantedAt:     grantedAt,
		grantedByID:   grantedByID,
		revokedAt:     revokedAt,
		revokedByID:   revokedByID,
		assignmentID:  assignmentID,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ID returns the access record ID
func (a *AppAccess) ID() uint {
	return a.id
}

// SID returns the access record short ID
func (a *AppAccess) SID() string {
	return a.sid
}

// TenantID returns the tenant ID
func (a *AppAccess) TenantID() uint {
	return a.tenantID
}

// UserID returns the user ID
func (a *AppAccess) UserID() uint {
	return a.userID
}

// ApplicationID returns the application ID
func (a *AppAccess) ApplicationID() uint {
	return a.applicationID
}

// AccessType returns the provenance of the grant
func (a *AppAccess) AccessType() AccessType {
	return a.accessType
}

// Status returns the access status
func (a *AppAccess) Status() AccessStatus {
	return a.status
}

// GrantedAt returns when access was granted
func (a *AppAccess) GrantedAt() time.Time {
	return a.grantedAt
}

// GrantedByID returns the actor who granted access
func (a *AppAccess) GrantedByID() *uint {
	return a.grantedByID
}

// RevokedAt returns when access was revoked
func (a *AppAccess) RevokedAt() *time.Time {
	return a.revokedAt
}

// RevokedByID returns the actor who revoked access
func (a *AppAccess) RevokedByID() *uint {
	return a.revokedByID
}

// AssignmentID returns the license assignment backing this access, if any
func (a *AppAccess) AssignmentID() *uint {
	return a.assignmentID
}

// Version returns the aggregate version for optimistic locking
func (a *AppAccess) Version() int {
	return a.version
}

// CreatedAt returns when the record was created
func (a *AppAccess) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the record was last updated
func (a *AppAccess) UpdatedAt() time.Time {
	return a.updatedAt
}

// SetID sets the access record ID (only for persistence layer use)
func (a *AppAccess) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("access ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("access ID cannot be zero")
	}
	a.id = id
	return nil
}

// IsActive checks if the record currently grants access
func (a *AppAccess) IsActive() bool {
	return a.status == AccessStatusActive
}

// Reactivate transitions a REVOKED/SUSPENDED record back to ACTIVE in place,
// clearing revocation metadata and refreshing provenance. Calling it on an
// already-ACTIVE record is an error; use UpdateAssignmentRef instead.
func (a *AppAccess) Reactivate(accessType AccessType, grantedByID *uint, assignmentID *uint) error {
	if a.status == AccessStatusActive {
		return fmt.Errorf("access is already active")
	}
	if !accessType.IsValid() {
		return fmt.Errorf("invalid access type: %s", accessType)
	}

	now := time.Now()
	a.status = AccessStatusActive
	a.accessType = accessType
	a.grantedAt = now
	a.grantedByID = grantedByID
	a.revokedAt = nil
	a.revokedByID = nil
	a.assignmentID = assignmentID
	a.updatedAt = now
	a.version++
	return nil
}

// UpdateAssignmentRef repoints the assignment back-reference on an ACTIVE
// record. Returns true when the reference actually changed.
func (a *AppAccess) UpdateAssignmentRef(assignmentID *uint) bool {
	if equalRef(a.assignmentID, assignmentID) {
		return false
	}
	a.assignmentID = assignmentID
	a.updatedAt = time.Now()
	a.version++
	return true
}

// Revoke transitions the record to REVOKED. Revoking an already-REVOKED
// record is a no-op.
func (a *AppAccess) Revoke(revokedByID *uint) error {
	if a.status == AccessStatusRevoked {
		return nil
	}

	now := time.Now()
	a.status = AccessStatusRevoked
	a.revokedAt = &now
	a.revokedByID = revokedByID
	a.assignmentID = nil
	a.updatedAt = now
	a.version++
	return nil
}

// Suspend transitions an ACTIVE record to SUSPENDED
func (a *AppAccess) Suspend() error {
	if a.status == AccessStatusSuspended {
		return nil
	}
	if a.status == AccessStatusRevoked {
		return fmt.Errorf("cannot suspend revoked access")
	}

	a.status = AccessStatusSuspended
	a.updatedAt = time.Now()
	a.version++
	return nil
}

func equalRef(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

package tenant

import (
	"fmt"
	"time"
)

// Membership represents one user's membership in a tenant
type Membership struct {
	id        uint
	tenantID  uint
	userID    uint
	role      MembershipRole
	status    MembershipStatus
	joinedAt  *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewMembership creates a new membership
func NewMembership(tenantID, userID uint, role MembershipRole, status MembershipStatus) (*Membership, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid membership role: %s", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid membership status: %s", status)
	}

	now := time.Now()
	m := &Membership{
		tenantID:  tenantID,
		userID:    userID,
		role:      role,
		status:    status,
		createdAt: now,
		updatedAt: now,
	}
	if status == MembershipStatusActive {
		m.joinedAt = &now
	}
	return m, nil
}

// ReconstructMembership reconstructs a membership from persistence
func ReconstructMembership(
	id, tenantID, userID uint,
	role MembershipRole,
	status MembershipStatus,
	joinedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Membership, error) {
	if id == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid membership role: %s", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid membership status: %s", status)
	}

	return &Membership{
		id:        id,
		tenantID:  tenantID,
		userID:    userID,
		role:      role,
		status:    status,
		joinedAt:  joinedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the membership ID
func (m *Membership) ID() uint {
	return m.id
}

// TenantID returns the tenant ID
func (m *Membership) TenantID() uint {
	return m.tenantID
}

// UserID returns the member's user ID
func (m *Membership) UserID() uint {
	return m.userID
}

// Role returns the membership role
func (m *Membership) Role() MembershipRole {
	return m.role
}

// Status returns the membership status
func (m *Membership) Status() MembershipStatus {
	return m.status
}

// JoinedAt returns when the member joined
func (m *Membership) JoinedAt() *time.Time {
	return m.joinedAt
}

// CreatedAt returns when the membership was created
func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the membership was last updated
func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

// SetID sets the membership ID (only for persistence layer use)
func (m *Membership) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("membership ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("membership ID cannot be zero")
	}
	m.id = id
	return nil
}

// IsActive checks if the member has joined and is not suspended
func (m *Membership) IsActive() bool {
	return m.status == MembershipStatusActive
}

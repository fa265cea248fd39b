// Package tenant provides the collaborator read model for tenants and their
// memberships. Tenant administration lives outside this service; the
// licensing engine reads memberships for member-limit checks and bulk
// access grants, and creates tenants only through the provisioning flow.
package tenant

// MembershipRole represents a member's role within a tenant
type MembershipRole string

const (
	// RoleOwner is the tenant owner
	RoleOwner MembershipRole = "OWNER"
	// RoleAdmin may manage licenses and members
	RoleAdmin MembershipRole = "ADMIN"
	// RoleMember is a regular member
	RoleMember MembershipRole = "MEMBER"
)

// IsValid checks if the membership role is valid
func (r MembershipRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// String returns the string representation of the membership role
func (r MembershipRole) String() string {
	return string(r)
}

// MembershipStatus represents the status of a tenant membership
type MembershipStatus string

const (
	// MembershipStatusActive indicates a joined member
	MembershipStatusActive MembershipStatus = "ACTIVE"
	// MembershipStatusInvited indicates a pending invitation
	MembershipStatusInvited MembershipStatus = "INVITED"
	// MembershipStatusSuspended indicates a temporarily suspended member
	MembershipStatusSuspended MembershipStatus = "SUSPENDED"
	// MembershipStatusLeft indicates a member who left the tenant
	MembershipStatusLeft MembershipStatus = "LEFT"
)

// IsValid checks if the membership status is valid
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipStatusActive, MembershipStatusInvited, MembershipStatusSuspended, MembershipStatusLeft:
		return true
	default:
		return false
	}
}

// String returns the string representation of the membership status
func (s MembershipStatus) String() string {
	return string(s)
}

// CountsTowardLimit reports whether the membership occupies a member slot.
// Invitations reserve a slot before the member joins.
func (s MembershipStatus) CountsTowardLimit() bool {
	return s == MembershipStatusActive || s == MembershipStatusInvited
}

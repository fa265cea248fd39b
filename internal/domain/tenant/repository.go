package tenant

import "context"

// Repository defines the interface for tenant persistence operations
type Repository interface {
	// Create creates a new tenant
	Create(ctx context.Context, t *Tenant) error

	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id uint) (*Tenant, error)

	// GetBySID retrieves a tenant by short ID
	GetBySID(ctx context.Context, sid string) (*Tenant, error)

	// GetBySlug retrieves a tenant by slug
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// MembershipRepository defines the interface for membership persistence operations
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, m *Membership) error

	// GetByTenantAndUser retrieves a user's membership in a tenant
	GetByTenantAndUser(ctx context.Context, tenantID, userID uint) (*Membership, error)

	// ListActiveByTenant retrieves all ACTIVE memberships of a tenant
	ListActiveByTenant(ctx context.Context, tenantID uint) ([]*Membership, error)

	// ListByTenant retrieves all memberships of a tenant regardless of status
	ListByTenant(ctx context.Context, tenantID uint) ([]*Membership, error)

	// CountActiveByTenant counts ACTIVE memberships
	CountActiveByTenant(ctx context.Context, tenantID uint) (int64, error)

	// CountOccupyingByTenant counts memberships holding a member slot (ACTIVE + INVITED)
	CountOccupyingByTenant(ctx context.Context, tenantID uint) (int64, error)
}

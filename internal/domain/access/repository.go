package access

import "context"

// Repository defines the interface for app access persistence operations
type Repository interface {
	// Create creates a new access record
	Create(ctx context.Context, a *AppAccess) error

	// Update updates an existing access record
	Update(ctx context.Context, a *AppAccess) error

	// GetByUserTenantApp retrieves the access record for a (user, tenant, application) triple
	GetByUserTenantApp(ctx context.Context, userID, tenantID, applicationID uint) (*AppAccess, error)

	// GetByID retrieves an access record by ID
	GetByID(ctx context.Context, id uint) (*AppAccess, error)

	// ListByUserAndTenant retrieves all access records a user has within a tenant
	ListByUserAndTenant(ctx context.Context, userID, tenantID uint) ([]*AppAccess, error)

	// ListActiveByTenantAndApp retrieves all ACTIVE records for a tenant+application
	ListActiveByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*AppAccess, error)

	// CreateSkipExisting inserts a batch of access records ignoring unique-key
	// conflicts, returning the records that were genuinely inserted.
	CreateSkipExisting(ctx context.Context, records []*AppAccess) ([]*AppAccess, error)
}

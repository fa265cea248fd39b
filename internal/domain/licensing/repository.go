package licensing

import "context"

// SubscriptionRepository defines the interface for subscription persistence operations.
// Implementations must honor a transaction carried in the context.
type SubscriptionRepository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *AppSubscription) error

	// Update updates an existing subscription. It never writes quantity_assigned;
	// the counter moves only through the conditional methods below.
	Update(ctx context.Context, sub *AppSubscription) error

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id uint) (*AppSubscription, error)

	// GetBySID retrieves a subscription by short ID
	GetBySID(ctx context.Context, sid string) (*AppSubscription, error)

	// GetByTenantAppType retrieves the subscription for a (tenant, application, licenseType) triple
	GetByTenantAppType(ctx context.Context, tenantID, applicationID, licenseTypeID uint) (*AppSubscription, error)

	// ListUsableByTenantAndApp retrieves all ACTIVE/TRIALING subscriptions for a tenant+application
	ListUsableByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*AppSubscription, error)

	// ListUsableByTenant retrieves all ACTIVE/TRIALING subscriptions for a tenant
	ListUsableByTenant(ctx context.Context, tenantID uint) ([]*AppSubscription, error)

	// ListPastDuePeriod retrieves usable subscriptions whose current period has lapsed
	ListPastDuePeriod(ctx context.Context) ([]*AppSubscription, error)

	// IncrementAssigned atomically consumes one seat with a conditional update:
	// it succeeds only if quantity_assigned still equals observedAssigned and
	// capacity remains. Returns false when zero rows matched, meaning the seat
	// was lost to a concurrent writer or capacity is exhausted.
	IncrementAssigned(ctx context.Context, subscriptionID uint, observedAssigned int) (bool, error)

	// DecrementAssigned atomically releases one seat, flooring at zero.
	// Releasing below zero is a silent no-op.
	DecrementAssigned(ctx context.Context, subscriptionID uint) error

	// SetAssignedCount overwrites the counter. Only the reconcile and expire
	// paths may call this.
	SetAssignedCount(ctx context.Context, subscriptionID uint, count int) error

	// Delete removes a subscription (tenant deletion cascade only)
	Delete(ctx context.Context, id uint) error
}

// AssignmentRepository defines the interface for license assignment persistence operations
type AssignmentRepository interface {
	// Create creates a new assignment
	Create(ctx context.Context, assignment *LicenseAssignment) error

	// Update updates an existing assignment (change-type path)
	Update(ctx context.Context, assignment *LicenseAssignment) error

	// Delete hard-deletes an assignment so the unique key can be reused
	Delete(ctx context.Context, id uint) error

	// GetByID retrieves an assignment by ID
	GetByID(ctx context.Context, id uint) (*LicenseAssignment, error)

	// GetByTenantUserApp retrieves the single assignment for a (tenant, user, application) triple
	GetByTenantUserApp(ctx context.Context, tenantID, userID, applicationID uint) (*LicenseAssignment, error)

	// ListByUser retrieves all assignments a user holds within a tenant
	ListByUser(ctx context.Context, tenantID, userID uint) ([]*LicenseAssignment, error)

	// ListByTenantAndApp retrieves all assignments for a tenant+application
	ListByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*LicenseAssignment, error)

	// ListBySubscription retrieves all assignments consuming a subscription's seats
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*LicenseAssignment, error)

	// CountBySubscription counts assignments consuming a subscription's seats
	CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error)

	// DeleteBySubscription hard-deletes all assignments of a subscription (expire path)
	DeleteBySubscription(ctx context.Context, subscriptionID uint) error

	// Exists checks whether an assignment exists for a (tenant, user, application) triple
	Exists(ctx context.Context, tenantID, userID, applicationID uint) (bool, error)
}

// AuditLogRepository defines the interface for the append-only license audit log
type AuditLogRepository interface {
	// Append writes a new audit entry. There is no update or delete.
	Append(ctx context.Context, entry *AuditEntry) error

	// ListByTenant retrieves audit entries for a tenant, newest first
	ListByTenant(ctx context.Context, tenantID uint, limit, offset int) ([]*AuditEntry, error)

	// CountByTenant counts audit entries for a tenant
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
}

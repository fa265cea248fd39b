package catalog

import "context"

// ApplicationRepository defines the interface for application persistence operations
type ApplicationRepository interface {
	// Create creates a new application
	Create(ctx context.Context, app *Application) error

	// Update updates an existing application
	Update(ctx context.Context, app *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id uint) (*Application, error)

	// GetBySID retrieves an application by short ID
	GetBySID(ctx context.Context, sid string) (*Application, error)

	// List retrieves all registered applications
	List(ctx context.Context) ([]*Application, error)

	// ListByAccessModes retrieves applications whose access mode is one of the given modes
	ListByAccessModes(ctx context.Context, modes []AccessMode) ([]*Application, error)
}

// LicenseTypeRepository defines the interface for license type persistence operations
type LicenseTypeRepository interface {
	// Create creates a new license type
	Create(ctx context.Context, lt *LicenseType) error

	// Update updates an existing license type
	Update(ctx context.Context, lt *LicenseType) error

	// GetByID retrieves a license type by ID
	GetByID(ctx context.Context, id uint) (*LicenseType, error)

	// GetBySID retrieves a license type by short ID
	GetBySID(ctx context.Context, sid string) (*LicenseType, error)

	// ListByApplication retrieves all license types of an application ordered by display order
	ListByApplication(ctx context.Context, applicationID uint) ([]*LicenseType, error)
}

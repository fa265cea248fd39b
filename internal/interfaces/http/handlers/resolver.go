package handlers

import (
	"context"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
)

// Resolver translates the prefixed IDs used on the wire into internal
// numeric keys. Handlers accept tn_/app_/lt_ identifiers only.
type Resolver struct {
	tenantRepo      tenant.Repository
	applicationRepo catalog.ApplicationRepository
	licenseTypeRepo catalog.LicenseTypeRepository
}

func NewResolver(
	tenantRepo tenant.Repository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
) *Resolver {
	return &Resolver{
		tenantRepo:      tenantRepo,
		applicationRepo: applicationRepo,
		licenseTypeRepo: licenseTypeRepo,
	}
}

func (r *Resolver) Tenant(ctx context.Context, sid string) (uint, error) {
	if err := id.ValidatePrefix(sid, id.PrefixTenant); err != nil {
		return 0, errors.NewValidationError("invalid tenant ID format")
	}
	t, err := r.tenantRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return 0, errors.NewNotFoundError("tenant not found")
		}
		return 0, err
	}
	return t.ID(), nil
}

func (r *Resolver) Application(ctx context.Context, sid string) (uint, error) {
	if err := id.ValidatePrefix(sid, id.PrefixApplication); err != nil {
		return 0, errors.NewValidationError("invalid application ID format")
	}
	app, err := r.applicationRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return 0, errors.NewNotFoundError("application not found")
		}
		return 0, err
	}
	return app.ID(), nil
}

func (r *Resolver) LicenseType(ctx context.Context, sid string) (uint, error) {
	if err := id.ValidatePrefix(sid, id.PrefixLicenseType); err != nil {
		return 0, errors.NewValidationError("invalid license type ID format")
	}
	lt, err := r.licenseTypeRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return 0, errors.NewNotFoundError("license type not found")
		}
		return 0, err
	}
	return lt.ID(), nil
}

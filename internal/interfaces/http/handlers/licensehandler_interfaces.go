package handlers

import (
	"context"

	"github.com/fed-stew/authvital-sub001/internal/application/licenseassignment/usecases"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
)

// Use case interfaces for LicenseHandler

type grantLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.GrantLicenseCommand) (*licensing.LicenseAssignment, error)
}

type revokeLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeLicenseCommand) error
}

type changeLicenseTypeUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangeLicenseTypeCommand) (*licensing.LicenseAssignment, error)
}

type bulkLicenseUseCase interface {
	GrantLicenses(ctx context.Context, cmd usecases.GrantLicensesBulkCommand) (*usecases.BulkResult, error)
	RevokeLicenses(ctx context.Context, cmd usecases.RevokeLicensesBulkCommand) (*usecases.BulkResult, error)
}

type checkLicenseUseCase interface {
	CheckLicense(ctx context.Context, tenantID, userID, applicationID uint) (*usecases.CheckLicenseResult, error)
	CheckFeature(ctx context.Context, tenantID, userID, applicationID uint, feature string) (*usecases.CheckFeatureResult, error)
}

type licenseQueryUseCase interface {
	GetUserLicenses(ctx context.Context, tenantID, userID uint) ([]usecases.LicenseView, error)
	GetAppLicenseHolders(ctx context.Context, tenantID, applicationID uint) ([]usecases.HolderView, error)
	GetTenantMembersWithLicenses(ctx context.Context, tenantID uint) ([]usecases.MemberLicensesView, error)
}

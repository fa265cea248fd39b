package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	assignmentUsecases "github.com/fed-stew/authvital-sub001/internal/application/licenseassignment/usecases"
	poolUsecases "github.com/fed-stew/authvital-sub001/internal/application/licensepool/usecases"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type ProvisionForNewTenantCommand struct {
	TenantID      uint
	OwnerUserID   uint
	ApplicationID uint
	LicenseTypeID uint
}

type ProvisionForNewTenantUseCase struct {
	provisionUC     *poolUsecases.ProvisionSubscriptionUseCase
	grantLicenseUC  *assignmentUsecases.GrantLicenseUseCase
	accessService   *appaccess.Service
	applicationRepo catalog.ApplicationRepository
	licenseTypeRepo catalog.LicenseTypeRepository
	logger          logger.Interface
}

func NewProvisionForNewTenantUseCase(
	provisionUC *poolUsecases.ProvisionSubscriptionUseCase,
	grantLicenseUC *assignmentUsecases.GrantLicenseUseCase,
	accessService *appaccess.Service,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	logger logger.Interface,
) *ProvisionForNewTenantUseCase {
	return &ProvisionForNewTenantUseCase{
		provisionUC:     provisionUC,
		grantLicenseUC:  grantLicenseUC,
		accessService:   accessService,
		applicationRepo: applicationRepo,
		licenseTypeRepo: licenseTypeRepo,
		logger:          logger,
	}
}

// Execute sets up a new tenant's inventory for one application and gives the
// owner their initial access. Inventory creation is the hard requirement;
// the owner access/seat step is best-effort because the subscription already
// exists and can be reconciled by hand if it fails.
func (uc *ProvisionForNewTenantUseCase) Execute(ctx context.Context, cmd ProvisionForNewTenantCommand) error {
	app, err := uc.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError("application not found")
		}
		return fmt.Errorf("failed to get application: %w", err)
	}

	lt, err := uc.licenseTypeRepo.GetByID(ctx, cmd.LicenseTypeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError("license type not found")
		}
		return fmt.Errorf("failed to get license type: %w", err)
	}
	if !lt.BelongsTo(cmd.ApplicationID) {
		return errors.NewBadRequestError("license type does not belong to application")
	}

	// FREE and TENANT_WIDE subscriptions carry a member-limit tier, not
	// seats, so quantity is always 1.
	quantity := 1
	if app.LicensingMode() == catalog.LicensingModePerSeat {
		quantity = app.DefaultSeatCount()
	}

	if _, err := uc.provisionUC.Execute(ctx, poolUsecases.ProvisionSubscriptionCommand{
		TenantID:          cmd.TenantID,
		ApplicationID:     cmd.ApplicationID,
		LicenseTypeID:     cmd.LicenseTypeID,
		QuantityPurchased: quantity,
	}); err != nil {
		return fmt.Errorf("failed to provision subscription: %w", err)
	}

	uc.grantOwnerAccess(ctx, cmd, app)

	uc.logger.Infow("tenant provisioned",
		"tenant_id", cmd.TenantID,
		"application_id", cmd.ApplicationID,
		"license_type_id", cmd.LicenseTypeID,
		"quantity_purchased", quantity)

	return nil
}

func (uc *ProvisionForNewTenantUseCase) grantOwnerAccess(ctx context.Context, cmd ProvisionForNewTenantCommand, app *catalog.Application) {
	switch app.LicensingMode() {
	case catalog.LicensingModeFree, catalog.LicensingModeTenantWide:
		if err := uc.accessService.AutoGrantOwnerAccess(ctx, cmd.TenantID, cmd.OwnerUserID, []*catalog.Application{app}); err != nil {
			uc.logger.Errorw("failed to grant owner access during provisioning",
				"error", err,
				"tenant_id", cmd.TenantID,
				"owner_user_id", cmd.OwnerUserID)
		}
	case catalog.LicensingModePerSeat:
		if !app.AutoGrantToOwner() {
			return
		}
		if _, err := uc.grantLicenseUC.Execute(ctx, assignmentUsecases.GrantLicenseCommand{
			TenantID:      cmd.TenantID,
			UserID:        cmd.OwnerUserID,
			ApplicationID: cmd.ApplicationID,
			LicenseTypeID: cmd.LicenseTypeID,
		}); err != nil {
			uc.logger.Errorw("failed to grant owner seat during provisioning",
				"error", err,
				"tenant_id", cmd.TenantID,
				"owner_user_id", cmd.OwnerUserID)
		}
	}
}

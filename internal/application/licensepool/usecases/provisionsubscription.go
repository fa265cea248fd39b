package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/shared/events"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/webhook"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/goroutine"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type ProvisionSubscriptionCommand struct {
	TenantID          uint
	ApplicationID     uint
	LicenseTypeID     uint
	QuantityPurchased int
	Status            licensing.SubscriptionStatus // defaults to ACTIVE
	CurrentPeriodEnd  *time.Time
}

type ProvisionSubscriptionUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	applicationRepo  catalog.ApplicationRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	tenantRepo       tenant.Repository
	emitter          webhook.Emitter
	dispatcher       events.EventPublisher
	overviewCache    cache.UsageOverviewCache
	logger           logger.Interface
}

func NewProvisionSubscriptionUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	tenantRepo tenant.Repository,
	emitter webhook.Emitter,
	dispatcher events.EventPublisher,
	overviewCache cache.UsageOverviewCache,
	logger logger.Interface,
) *ProvisionSubscriptionUseCase {
	return &ProvisionSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		applicationRepo:  applicationRepo,
		licenseTypeRepo:  licenseTypeRepo,
		tenantRepo:       tenantRepo,
		emitter:          emitter,
		dispatcher:       dispatcher,
		overviewCache:    overviewCache,
		logger:           logger,
	}
}

// Execute upserts the inventory row for (tenant, application, licenseType).
// The tenant.app.granted webhook fires only on true creation, never on a
// quantity/status refresh of an existing row.
func (uc *ProvisionSubscriptionUseCase) Execute(ctx context.Context, cmd ProvisionSubscriptionCommand) (*licensing.AppSubscription, error) {
	app, err := uc.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app.IsAccessDisabled() {
		return nil, errors.NewForbiddenError("application access is disabled")
	}

	lt, err := uc.licenseTypeRepo.GetByID(ctx, cmd.LicenseTypeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("license type not found")
		}
		return nil, fmt.Errorf("failed to get license type: %w", err)
	}
	if !lt.BelongsTo(cmd.ApplicationID) {
		return nil, errors.NewBadRequestError("license type does not belong to application")
	}

	status := cmd.Status
	if status == "" {
		status = licensing.SubscriptionStatusActive
	}

	existing, err := uc.subscriptionRepo.GetByTenantAppType(ctx, cmd.TenantID, cmd.ApplicationID, cmd.LicenseTypeID)
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}

	if existing != nil {
		if err := existing.Reprovision(cmd.QuantityPurchased, status, cmd.CurrentPeriodEnd); err != nil {
			if err == licensing.ErrQuantityBelowAssigned {
				return nil, errors.NewBadRequestError("purchased quantity cannot be less than assigned count")
			}
			return nil, errors.NewValidationError("invalid subscription update", err.Error())
		}
		if err := uc.subscriptionRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update subscription: %w", err)
		}

		uc.invalidateOverview(ctx, cmd.TenantID)
		uc.logger.Infow("subscription reprovisioned",
			"subscription_id", existing.ID(),
			"tenant_id", cmd.TenantID,
			"quantity_purchased", cmd.QuantityPurchased)
		return existing, nil
	}

	if !lt.Status().IsActive() {
		return nil, errors.NewBadRequestError("license type is not active")
	}

	sid, err := id.NewSubscriptionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription ID: %w", err)
	}

	sub, err := licensing.NewAppSubscription(sid, cmd.TenantID, cmd.ApplicationID, cmd.LicenseTypeID,
		cmd.QuantityPurchased, status, cmd.CurrentPeriodEnd, true)
	if err != nil {
		return nil, errors.NewValidationError("invalid subscription", err.Error())
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.IsConflictError(err) {
			return nil, errors.NewConflictError("subscription already exists for this license type")
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.invalidateOverview(ctx, cmd.TenantID)
	uc.publishProvisioned(sub)
	uc.emitProvisioned(ctx, sub, app.SID())

	uc.logger.Infow("subscription provisioned",
		"subscription_id", sub.ID(),
		"tenant_id", cmd.TenantID,
		"application_id", cmd.ApplicationID,
		"license_type_id", cmd.LicenseTypeID,
		"quantity_purchased", cmd.QuantityPurchased)

	return sub, nil
}

func (uc *ProvisionSubscriptionUseCase) invalidateOverview(ctx context.Context, tenantID uint) {
	if uc.overviewCache == nil {
		return
	}
	t, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil || t == nil {
		return
	}
	if err := uc.overviewCache.Invalidate(ctx, t.SID()); err != nil {
		uc.logger.Warnw("failed to invalidate usage overview cache", "error", err, "tenant_id", tenantID)
	}
}

func (uc *ProvisionSubscriptionUseCase) publishProvisioned(sub *licensing.AppSubscription) {
	if uc.dispatcher == nil {
		return
	}
	if err := uc.dispatcher.Publish(licensing.NewSubscriptionProvisionedEvent(sub)); err != nil {
		uc.logger.Warnw("failed to publish domain event",
			"event_type", "tenant.app.granted",
			"subscription_id", sub.ID(),
			"error", err)
	}
}

func (uc *ProvisionSubscriptionUseCase) emitProvisioned(ctx context.Context, sub *licensing.AppSubscription, applicationSID string) {
	if uc.emitter == nil {
		return
	}
	tenantID := sub.TenantID()
	licenseTypeID := sub.LicenseTypeID()
	quantity := sub.QuantityPurchased()
	subscriptionSID := sub.SID()

	goroutine.SafeGo(uc.logger, "provision-webhook", func() {
		bgCtx := context.Background()
		tenantSID := ""
		if t, err := uc.tenantRepo.GetByID(bgCtx, tenantID); err == nil && t != nil {
			tenantSID = t.SID()
		}
		if err := uc.emitter.Emit(bgCtx, "tenant.app.granted", "", tenantSID, applicationSID, map[string]any{
			"subscription_id":    subscriptionSID,
			"license_type_id":    licenseTypeID,
			"quantity_purchased": quantity,
		}); err != nil {
			uc.logger.Warnw("failed to emit provision webhook", "error", err, "tenant_id", tenantID)
		}
	})
}

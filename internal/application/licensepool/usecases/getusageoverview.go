package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type GetUsageOverviewUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	applicationRepo  catalog.ApplicationRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	tenantRepo       tenant.Repository
	overviewCache    cache.UsageOverviewCache
	logger           logger.Interface
}

func NewGetUsageOverviewUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	tenantRepo tenant.Repository,
	overviewCache cache.UsageOverviewCache,
	logger logger.Interface,
) *GetUsageOverviewUseCase {
	return &GetUsageOverviewUseCase{
		subscriptionRepo: subscriptionRepo,
		applicationRepo:  applicationRepo,
		licenseTypeRepo:  licenseTypeRepo,
		tenantRepo:       tenantRepo,
		overviewCache:    overviewCache,
		logger:           logger,
	}
}

// Execute returns the tenant's seat usage grouped by application. The
// overview is served from cache when present; mutation paths invalidate it,
// so a hit can only be as stale as the TTL after an out-of-band change.
func (uc *GetUsageOverviewUseCase) Execute(ctx context.Context, tenantSID string) (*cache.CachedUsageOverview, error) {
	t, err := uc.tenantRepo.GetBySID(ctx, tenantSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("tenant not found")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if uc.overviewCache != nil {
		if cached, err := uc.overviewCache.Get(ctx, tenantSID); err == nil && cached != nil {
			return cached, nil
		}
	}

	overview, err := uc.buildOverview(ctx, t)
	if err != nil {
		return nil, err
	}

	if uc.overviewCache != nil {
		if err := uc.overviewCache.Set(ctx, overview); err != nil {
			uc.logger.Warnw("failed to cache usage overview", "error", err, "tenant_id", t.ID())
		}
	}
	return overview, nil
}

func (uc *GetUsageOverviewUseCase) buildOverview(ctx context.Context, t *tenant.Tenant) (*cache.CachedUsageOverview, error) {
	subs, err := uc.subscriptionRepo.ListUsableByTenant(ctx, t.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	overview := &cache.CachedUsageOverview{
		TenantID:     t.SID(),
		Applications: []cache.CachedApplicationUsage{},
		CachedAt:     time.Now().Unix(),
	}

	byApp := make(map[uint][]*licensing.AppSubscription)
	appOrder := []uint{}
	for _, sub := range subs {
		if _, seen := byApp[sub.ApplicationID()]; !seen {
			appOrder = append(appOrder, sub.ApplicationID())
		}
		byApp[sub.ApplicationID()] = append(byApp[sub.ApplicationID()], sub)
	}

	for _, appID := range appOrder {
		app, err := uc.applicationRepo.GetByID(ctx, appID)
		if err != nil {
			uc.logger.Warnw("skipping unknown application in overview", "error", err, "application_id", appID)
			continue
		}

		appUsage := cache.CachedApplicationUsage{
			ApplicationID:   app.SID(),
			ApplicationName: app.Name(),
			LicensingMode:   string(app.LicensingMode()),
			Subscriptions:   []cache.CachedSubscriptionUsage{},
		}

		for _, sub := range byApp[appID] {
			ltSID := ""
			ltName := ""
			if lt, err := uc.licenseTypeRepo.GetByID(ctx, sub.LicenseTypeID()); err == nil {
				ltSID = lt.SID()
				ltName = lt.Name()
			}
			appUsage.Subscriptions = append(appUsage.Subscriptions, cache.CachedSubscriptionUsage{
				SubscriptionID:    sub.SID(),
				LicenseTypeID:     ltSID,
				LicenseTypeName:   ltName,
				Status:            string(sub.Status()),
				QuantityPurchased: sub.QuantityPurchased(),
				QuantityAssigned:  sub.QuantityAssigned(),
				SeatsAvailable:    sub.AvailableSeats(),
			})
		}

		overview.Applications = append(overview.Applications, appUsage)
	}

	return overview, nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type UpdateQuantityCommand struct {
	SubscriptionSID      string
	NewQuantityPurchased int
}

type UpdateQuantityUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	tenantRepo       tenant.Repository
	overviewCache    cache.UsageOverviewCache
	logger           logger.Interface
}

func NewUpdateQuantityUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	tenantRepo tenant.Repository,
	overviewCache cache.UsageOverviewCache,
	logger logger.Interface,
) *UpdateQuantityUseCase {
	return &UpdateQuantityUseCase{
		subscriptionRepo: subscriptionRepo,
		tenantRepo:       tenantRepo,
		overviewCache:    overviewCache,
		logger:           logger,
	}
}

// Execute changes the purchased quantity. Shrinking below the currently
// assigned count is rejected; seats must be revoked first.
func (uc *UpdateQuantityUseCase) Execute(ctx context.Context, cmd UpdateQuantityCommand) (*licensing.AppSubscription, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := sub.UpdateQuantity(cmd.NewQuantityPurchased); err != nil {
		if err == licensing.ErrQuantityBelowAssigned {
			return nil, errors.NewBadRequestError("purchased quantity cannot be less than assigned count",
				fmt.Sprintf("assigned=%d", sub.QuantityAssigned()))
		}
		return nil, errors.NewValidationError("invalid quantity", err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.invalidateOverview(ctx, sub.TenantID())
	uc.logger.Infow("subscription quantity updated",
		"subscription_id", sub.ID(),
		"quantity_purchased", cmd.NewQuantityPurchased)

	return sub, nil
}

func (uc *UpdateQuantityUseCase) invalidateOverview(ctx context.Context, tenantID uint) {
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

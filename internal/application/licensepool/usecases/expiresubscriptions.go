package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type ExpireSubscriptionsUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	expireOne        *ExpireSubscriptionUseCase
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	expireOne *ExpireSubscriptionUseCase,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		expireOne:        expireOne,
		logger:           logger,
	}
}

// Execute expires every usable subscription whose billing period has lapsed.
// Each subscription is handled independently; one failure does not stop the
// scan. Returns the number of subscriptions expired.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	subs, err := uc.subscriptionRepo.ListPastDuePeriod(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list past-due subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return 0, nil
	}

	expired := 0
	for _, sub := range subs {
		if err := uc.expireOne.expire(ctx, sub); err != nil {
			uc.logger.Errorw("failed to expire subscription",
				"error", err,
				"subscription_id", sub.ID(),
				"tenant_id", sub.TenantID())
			continue
		}
		expired++
	}

	uc.logger.Infow("expiry scan complete", "scanned", len(subs), "expired", expired)
	return expired, nil
}

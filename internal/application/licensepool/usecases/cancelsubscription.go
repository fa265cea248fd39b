package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type CancelSubscriptionUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute stops renewal. Assignments and access persist until period end;
// the expiry scan releases them once the period lapses.
func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, subscriptionSID string) (*licensing.AppSubscription, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, subscriptionSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := sub.Cancel(); err != nil {
		return nil, errors.NewBadRequestError("cannot cancel subscription", err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription canceled", "subscription_id", sub.ID(), "tenant_id", sub.TenantID())
	return sub, nil
}

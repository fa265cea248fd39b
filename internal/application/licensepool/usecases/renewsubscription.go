package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	SubscriptionSID  string
	CurrentPeriodEnd time.Time
}

type RenewSubscriptionUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	logger           logger.Interface
}

func NewRenewSubscriptionUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute reactivates the subscription with a new period end
func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*licensing.AppSubscription, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := sub.Renew(cmd.CurrentPeriodEnd); err != nil {
		return nil, errors.NewBadRequestError("cannot renew subscription", err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription renewed",
		"subscription_id", sub.ID(),
		"tenant_id", sub.TenantID(),
		"period_end", cmd.CurrentPeriodEnd)
	return sub, nil
}

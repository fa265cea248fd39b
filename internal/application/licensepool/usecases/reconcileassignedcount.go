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

type ReconcileAssignedCountUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	assignmentRepo   licensing.AssignmentRepository
	tenantRepo       tenant.Repository
	overviewCache    cache.UsageOverviewCache
	logger           logger.Interface
}

func NewReconcileAssignedCountUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	assignmentRepo licensing.AssignmentRepository,
	tenantRepo tenant.Repository,
	overviewCache cache.UsageOverviewCache,
	logger logger.Interface,
) *ReconcileAssignedCountUseCase {
	return &ReconcileAssignedCountUseCase{
		subscriptionRepo: subscriptionRepo,
		assignmentRepo:   assignmentRepo,
		tenantRepo:       tenantRepo,
		overviewCache:    overviewCache,
		logger:           logger,
	}
}

// Execute recomputes quantity_assigned from the actual assignment rows.
// A corrective operation for drift, not part of the hot path.
func (uc *ReconcileAssignedCountUseCase) Execute(ctx context.Context, subscriptionSID string) (int, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, subscriptionSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return 0, errors.NewNotFoundError("subscription not found")
		}
		return 0, fmt.Errorf("failed to get subscription: %w", err)
	}

	count, err := uc.assignmentRepo.CountBySubscription(ctx, sub.ID())
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	if int(count) != sub.QuantityAssigned() {
		uc.logger.Warnw("assigned count drift detected",
			"subscription_id", sub.ID(),
			"stored", sub.QuantityAssigned(),
			"actual", count)
	}

	if err := uc.subscriptionRepo.SetAssignedCount(ctx, sub.ID(), int(count)); err != nil {
		return 0, fmt.Errorf("failed to set assigned count: %w", err)
	}

	if uc.overviewCache != nil {
		if t, err := uc.tenantRepo.GetByID(ctx, sub.TenantID()); err == nil && t != nil {
			if err := uc.overviewCache.Invalidate(ctx, t.SID()); err != nil {
				uc.logger.Warnw("failed to invalidate usage overview cache", "error", err, "tenant_id", sub.TenantID())
			}
		}
	}

	return int(count), nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type ExpireSubscriptionUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	assignmentRepo   licensing.AssignmentRepository
	accessService    *appaccess.Service
	tenantRepo       tenant.Repository
	txManager        *db.TransactionManager
	overviewCache    cache.UsageOverviewCache
	logger           logger.Interface
}

func NewExpireSubscriptionUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	assignmentRepo licensing.AssignmentRepository,
	accessService *appaccess.Service,
	tenantRepo tenant.Repository,
	txManager *db.TransactionManager,
	overviewCache cache.UsageOverviewCache,
	logger logger.Interface,
) *ExpireSubscriptionUseCase {
	return &ExpireSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		assignmentRepo:   assignmentRepo,
		accessService:    accessService,
		tenantRepo:       tenantRepo,
		txManager:        txManager,
		overviewCache:    overviewCache,
		logger:           logger,
	}
}

// Execute expires a subscription immediately: all its assignments are
// deleted and the counter zeroed in one transaction, then seat-backed access
// is revoked best-effort.
func (uc *ExpireSubscriptionUseCase) Execute(ctx context.Context, subscriptionSID string) error {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, subscriptionSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError("subscription not found")
		}
		return fmt.Errorf("failed to get subscription: %w", err)
	}

	return uc.expire(ctx, sub)
}

// expire runs the transactional release. Shared with the batch scan.
func (uc *ExpireSubscriptionUseCase) expire(ctx context.Context, sub *licensing.AppSubscription) error {
	assignments, err := uc.assignmentRepo.ListBySubscription(ctx, sub.ID())
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	if err := sub.Expire(); err != nil {
		return errors.NewBadRequestError("cannot expire subscription", err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.assignmentRepo.DeleteBySubscription(txCtx, sub.ID()); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		if err := uc.subscriptionRepo.SetAssignedCount(txCtx, sub.ID(), 0); err != nil {
			return fmt.Errorf("failed to zero assigned count: %w", err)
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Access revocation is outside the transaction; failures leave the
	// access record for manual reconciliation but never undo the expiry.
	for _, assignment := range assignments {
		if err := uc.accessService.RevokeAccess(ctx, assignment.TenantID(), assignment.UserID(), assignment.ApplicationID(), nil); err != nil {
			uc.logger.Warnw("failed to revoke access after expiry",
				"error", err,
				"subscription_id", sub.ID(),
				"user_id", assignment.UserID())
		}
	}

	if uc.overviewCache != nil {
		if t, err := uc.tenantRepo.GetByID(ctx, sub.TenantID()); err == nil && t != nil {
			if err := uc.overviewCache.Invalidate(ctx, t.SID()); err != nil {
				uc.logger.Warnw("failed to invalidate usage overview cache", "error", err, "tenant_id", sub.TenantID())
			}
		}
	}

	uc.logger.Infow("subscription expired",
		"subscription_id", sub.ID(),
		"tenant_id", sub.TenantID(),
		"released_seats", len(assignments))
	return nil
}

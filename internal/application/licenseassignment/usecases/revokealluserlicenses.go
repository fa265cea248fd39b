package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type RevokeAllUserLicensesCommand struct {
	TenantID    uint
	UserID      uint
	RevokedByID *uint
}

type RevokeAllUserLicensesUseCase struct {
	assignmentRepo   licensing.AssignmentRepository
	subscriptionRepo licensing.SubscriptionRepository
	tenantRepo       tenant.Repository
	auditRepo        licensing.AuditLogRepository
	accessService    *appaccess.Service
	txManager        *db.TransactionManager
	overviewCache    cache.UsageOverviewCache
	events           *LicenseEventEmitter
	logger           logger.Interface
}

func NewRevokeAllUserLicensesUseCase(
	assignmentRepo licensing.AssignmentRepository,
	subscriptionRepo licensing.SubscriptionRepository,
	tenantRepo tenant.Repository,
	auditRepo licensing.AuditLogRepository,
	accessService *appaccess.Service,
	txManager *db.TransactionManager,
	overviewCache cache.UsageOverviewCache,
	events *LicenseEventEmitter,
	logger logger.Interface,
) *RevokeAllUserLicensesUseCase {
	return &RevokeAllUserLicensesUseCase{
		assignmentRepo:   assignmentRepo,
		subscriptionRepo: subscriptionRepo,
		tenantRepo:       tenantRepo,
		auditRepo:        auditRepo,
		accessService:    accessService,
		txManager:        txManager,
		overviewCache:    overviewCache,
		events:           events,
		logger:           logger,
	}
}

// Execute releases every seat a user holds in a tenant in one transaction.
// Used when a member leaves or is removed. Returns the number of seats
// released; zero assignments is not an error.
func (uc *RevokeAllUserLicensesUseCase) Execute(ctx context.Context, cmd RevokeAllUserLicensesCommand) (int, error) {
	assignments, err := uc.assignmentRepo.ListByUser(ctx, cmd.TenantID, cmd.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, assignment := range assignments {
			if err := uc.assignmentRepo.Delete(txCtx, assignment.ID()); err != nil {
				return fmt.Errorf("failed to delete assignment %d: %w", assignment.ID(), err)
			}
			if err := uc.subscriptionRepo.DecrementAssigned(txCtx, assignment.SubscriptionID()); err != nil {
				return fmt.Errorf("failed to release seat of subscription %d: %w", assignment.SubscriptionID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := uc.accessService.RevokeAllForUser(ctx, cmd.TenantID, cmd.UserID, cmd.RevokedByID); err != nil {
		uc.logger.Errorw("failed to revoke app access after bulk license revoke",
			"error", err,
			"tenant_id", cmd.TenantID,
			"user_id", cmd.UserID)
	}

	for _, assignment := range assignments {
		appendAudit(ctx, uc.auditRepo, uc.logger,
			assignment.TenantID(), assignment.UserID(), assignment.ApplicationID(),
			licensing.AuditActionRevoked, assignment.LicenseTypeID(), assignment.LicenseTypeName(),
			nil, cmd.RevokedByID)

		uc.events.publish(licensing.NewLicenseRevokedEvent(assignment))
		uc.events.emit("license.revoked", assignment.TenantID(), assignment.UserID(),
			assignment.ApplicationID(), assignment.LicenseTypeID(), assignment.LicenseTypeName(), nil)
	}

	if uc.overviewCache != nil {
		if t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID); err == nil && t != nil {
			if err := uc.overviewCache.Invalidate(ctx, t.SID()); err != nil {
				uc.logger.Warnw("failed to invalidate usage overview cache", "error", err, "tenant_id", cmd.TenantID)
			}
		}
	}

	uc.logger.Infow("all user licenses revoked",
		"tenant_id", cmd.TenantID,
		"user_id", cmd.UserID,
		"released_seats", len(assignments))

	return len(assignments), nil
}

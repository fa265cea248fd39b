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

type RevokeLicenseCommand struct {
	TenantID      uint
	UserID        uint
	ApplicationID uint
	RevokedByID   *uint
}

type RevokeLicenseUseCase struct {
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

func NewRevokeLicenseUseCase(
	assignmentRepo licensing.AssignmentRepository,
	subscriptionRepo licensing.SubscriptionRepository,
	tenantRepo tenant.Repository,
	auditRepo licensing.AuditLogRepository,
	accessService *appaccess.Service,
	txManager *db.TransactionManager,
	overviewCache cache.UsageOverviewCache,
	events *LicenseEventEmitter,
	logger logger.Interface,
) *RevokeLicenseUseCase {
	return &RevokeLicenseUseCase{
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

// Execute releases a user's seat. The assignment row is hard-deleted so the
// (tenant, user, application) key is immediately reusable for a re-grant.
func (uc *RevokeLicenseUseCase) Execute(ctx context.Context, cmd RevokeLicenseCommand) error {
	assignment, err := uc.assignmentRepo.GetByTenantUserApp(ctx, cmd.TenantID, cmd.UserID, cmd.ApplicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError(licensing.ErrAssignmentNotFound.Error())
		}
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.assignmentRepo.Delete(txCtx, assignment.ID()); err != nil {
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
		if err := uc.subscriptionRepo.DecrementAssigned(txCtx, assignment.SubscriptionID()); err != nil {
			return fmt.Errorf("failed to release seat: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.afterRevoke(ctx, assignment, cmd.RevokedByID)

	uc.logger.Infow("license revoked",
		"assignment_id", assignment.ID(),
		"tenant_id", cmd.TenantID,
		"user_id", cmd.UserID,
		"application_id", cmd.ApplicationID)

	return nil
}

func (uc *RevokeLicenseUseCase) afterRevoke(ctx context.Context, assignment *licensing.LicenseAssignment, revokedByID *uint) {
	if err := uc.accessService.RevokeAccess(ctx, assignment.TenantID(), assignment.UserID(),
		assignment.ApplicationID(), revokedByID); err != nil {
		uc.logger.Errorw("failed to revoke app access after license revoke",
			"error", err,
			"assignment_id", assignment.ID(),
			"user_id", assignment.UserID())
	}

	appendAudit(ctx, uc.auditRepo, uc.logger,
		assignment.TenantID(), assignment.UserID(), assignment.ApplicationID(),
		licensing.AuditActionRevoked, assignment.LicenseTypeID(), assignment.LicenseTypeName(),
		nil, revokedByID)

	uc.events.publish(licensing.NewLicenseRevokedEvent(assignment))
	uc.events.emit("license.revoked", assignment.TenantID(), assignment.UserID(),
		assignment.ApplicationID(), assignment.LicenseTypeID(), assignment.LicenseTypeName(), nil)

	if uc.overviewCache != nil {
		if t, err := uc.tenantRepo.GetByID(ctx, assignment.TenantID()); err == nil && t != nil {
			if err := uc.overviewCache.Invalidate(ctx, t.SID()); err != nil {
				uc.logger.Warnw("failed to invalidate usage overview cache", "error", err, "tenant_id", assignment.TenantID())
			}
		}
	}
}

package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type ChangeLicenseTypeCommand struct {
	TenantID         uint
	UserID           uint
	ApplicationID    uint
	NewLicenseTypeID uint
	ChangedByID      *uint
}

type ChangeLicenseTypeUseCase struct {
	assignmentRepo   licensing.AssignmentRepository
	subscriptionRepo licensing.SubscriptionRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	tenantRepo       tenant.Repository
	auditRepo        licensing.AuditLogRepository
	txManager        *db.TransactionManager
	overviewCache    cache.UsageOverviewCache
	events           *LicenseEventEmitter
	logger           logger.Interface
}

func NewChangeLicenseTypeUseCase(
	assignmentRepo licensing.AssignmentRepository,
	subscriptionRepo licensing.SubscriptionRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	tenantRepo tenant.Repository,
	auditRepo licensing.AuditLogRepository,
	txManager *db.TransactionManager,
	overviewCache cache.UsageOverviewCache,
	events *LicenseEventEmitter,
	logger logger.Interface,
) *ChangeLicenseTypeUseCase {
	return &ChangeLicenseTypeUseCase{
		assignmentRepo:   assignmentRepo,
		subscriptionRepo: subscriptionRepo,
		licenseTypeRepo:  licenseTypeRepo,
		tenantRepo:       tenantRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		overviewCache:    overviewCache,
		events:           events,
		logger:           logger,
	}
}

// Execute moves a user's assignment to a different license type of the same
// application. The old seat release and the new seat consumption commit
// together; if the new pool is full the whole change rolls back and the user
// keeps the old seat.
func (uc *ChangeLicenseTypeUseCase) Execute(ctx context.Context, cmd ChangeLicenseTypeCommand) (*licensing.LicenseAssignment, error) {
	assignment, err := uc.assignmentRepo.GetByTenantUserApp(ctx, cmd.TenantID, cmd.UserID, cmd.ApplicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError(licensing.ErrAssignmentNotFound.Error())
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if assignment.LicenseTypeID() == cmd.NewLicenseTypeID {
		return nil, errors.NewBadRequestError(licensing.ErrSameLicenseType.Error())
	}

	newSub, err := uc.subscriptionRepo.GetByTenantAppType(ctx, cmd.TenantID, cmd.ApplicationID, cmd.NewLicenseTypeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("no subscription for the target license type")
		}
		return nil, fmt.Errorf("failed to get target subscription: %w", err)
	}
	if !newSub.IsUsable() {
		return nil, errors.NewBadRequestError(licensing.ErrSubscriptionNotUsable.Error())
	}
	if !newSub.HasAvailableSeats() {
		return nil, errors.NewNoSeatsAvailableError(newSub.QuantityPurchased(), newSub.QuantityAssigned())
	}

	newType, err := uc.licenseTypeRepo.GetByID(ctx, cmd.NewLicenseTypeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("license type not found")
		}
		return nil, fmt.Errorf("failed to get license type: %w", err)
	}

	previousTypeID := assignment.LicenseTypeID()
	oldSubscriptionID := assignment.SubscriptionID()
	observedAssigned := newSub.QuantityAssigned()

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.DecrementAssigned(txCtx, oldSubscriptionID); err != nil {
			return fmt.Errorf("failed to release old seat: %w", err)
		}

		consumed, err := uc.subscriptionRepo.IncrementAssigned(txCtx, newSub.ID(), observedAssigned)
		if err != nil {
			return fmt.Errorf("failed to consume new seat: %w", err)
		}
		if !consumed {
			return errors.NewNoSeatsAvailableError(newSub.QuantityPurchased(), observedAssigned)
		}

		if err := assignment.ChangeType(newSub.ID(), cmd.NewLicenseTypeID, newType.Name()); err != nil {
			return errors.NewBadRequestError("cannot change license type", err.Error())
		}
		if err := uc.assignmentRepo.Update(txCtx, assignment); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appendAudit(ctx, uc.auditRepo, uc.logger,
		cmd.TenantID, cmd.UserID, cmd.ApplicationID,
		licensing.AuditActionChanged, cmd.NewLicenseTypeID, newType.Name(),
		&previousTypeID, cmd.ChangedByID)

	uc.events.publish(licensing.NewLicenseChangedEvent(assignment, previousTypeID))
	uc.events.emit("license.changed", cmd.TenantID, cmd.UserID, cmd.ApplicationID,
		cmd.NewLicenseTypeID, newType.Name(), &previousTypeID)

	if uc.overviewCache != nil {
		if t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID); err == nil && t != nil {
			if err := uc.overviewCache.Invalidate(ctx, t.SID()); err != nil {
				uc.logger.Warnw("failed to invalidate usage overview cache", "error", err, "tenant_id", cmd.TenantID)
			}
		}
	}

	uc.logger.Infow("license type changed",
		"assignment_id", assignment.ID(),
		"tenant_id", cmd.TenantID,
		"user_id", cmd.UserID,
		"previous_license_type_id", previousTypeID,
		"new_license_type_id", cmd.NewLicenseTypeID)

	return assignment, nil
}

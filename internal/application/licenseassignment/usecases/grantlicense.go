package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/goroutine"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// seatNotifier sends the courtesy email after a seat is assigned.
type seatNotifier interface {
	SendSeatAssignedNotice(to, displayName, applicationName, licenseTypeName string) error
}

type GrantLicenseCommand struct {
	TenantID      uint
	UserID        uint
	ApplicationID uint
	LicenseTypeID uint
	AssignedByID  *uint
}

type GrantLicenseUseCase struct {
	assignmentRepo   licensing.AssignmentRepository
	subscriptionRepo licensing.SubscriptionRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	applicationRepo  catalog.ApplicationRepository
	membershipRepo   tenant.MembershipRepository
	tenantRepo       tenant.Repository
	auditRepo        licensing.AuditLogRepository
	accessService    *appaccess.Service
	txManager        *db.TransactionManager
	overviewCache    cache.UsageOverviewCache
	events           *LicenseEventEmitter
	directory        directory.Directory
	notifier         seatNotifier
	logger           logger.Interface
}

func NewGrantLicenseUseCase(
	assignmentRepo licensing.AssignmentRepository,
	subscriptionRepo licensing.SubscriptionRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	applicationRepo catalog.ApplicationRepository,
	membershipRepo tenant.MembershipRepository,
	tenantRepo tenant.Repository,
	auditRepo licensing.AuditLogRepository,
	accessService *appaccess.Service,
	txManager *db.TransactionManager,
	overviewCache cache.UsageOverviewCache,
	events *LicenseEventEmitter,
	dir directory.Directory,
	notifier seatNotifier,
	logger logger.Interface,
) *GrantLicenseUseCase {
	return &GrantLicenseUseCase{
		assignmentRepo:   assignmentRepo,
		subscriptionRepo: subscriptionRepo,
		licenseTypeRepo:  licenseTypeRepo,
		applicationRepo:  applicationRepo,
		membershipRepo:   membershipRepo,
		tenantRepo:       tenantRepo,
		auditRepo:        auditRepo,
		accessService:    accessService,
		txManager:        txManager,
		overviewCache:    overviewCache,
		events:           events,
		directory:        dir,
		notifier:         notifier,
		logger:           logger,
	}
}

// Execute assigns one seat to a user. The seat is consumed with a
// conditional increment keyed on the observed counter; losing the race to a
// concurrent grant surfaces as no-seats-available rather than a retry.
func (uc *GrantLicenseUseCase) Execute(ctx context.Context, cmd GrantLicenseCommand) (*licensing.LicenseAssignment, error) {
	app, err := uc.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app.IsAccessDisabled() {
		return nil, errors.NewForbiddenError("application access is disabled")
	}

	membership, err := uc.membershipRepo.GetByTenantAndUser(ctx, cmd.TenantID, cmd.UserID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewBadRequestError("user is not a member of this tenant")
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if !membership.IsActive() {
		return nil, errors.NewBadRequestError("user is not an active member of this tenant")
	}

	exists, err := uc.assignmentRepo.Exists(ctx, cmd.TenantID, cmd.UserID, cmd.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError(licensing.ErrUserAlreadyHasLicense.Error())
	}

	sub, err := uc.subscriptionRepo.GetByTenantAppType(ctx, cmd.TenantID, cmd.ApplicationID, cmd.LicenseTypeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("no subscription for this license type")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if !sub.IsUsable() {
		return nil, errors.NewBadRequestError(licensing.ErrSubscriptionNotUsable.Error())
	}
	if !sub.HasAvailableSeats() {
		return nil, errors.NewNoSeatsAvailableError(sub.QuantityPurchased(), sub.QuantityAssigned())
	}

	lt, err := uc.licenseTypeRepo.GetByID(ctx, cmd.LicenseTypeID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("license type not found")
		}
		return nil, fmt.Errorf("failed to get license type: %w", err)
	}

	sid, err := id.NewAssignmentID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment ID: %w", err)
	}

	assignment, err := licensing.NewLicenseAssignment(sid, cmd.TenantID, cmd.UserID,
		cmd.ApplicationID, sub.ID(), cmd.LicenseTypeID, lt.Name(), cmd.AssignedByID)
	if err != nil {
		return nil, errors.NewValidationError("invalid license assignment", err.Error())
	}

	observedAssigned := sub.QuantityAssigned()
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		consumed, err := uc.subscriptionRepo.IncrementAssigned(txCtx, sub.ID(), observedAssigned)
		if err != nil {
			return fmt.Errorf("failed to consume seat: %w", err)
		}
		if !consumed {
			// Lost the seat to a concurrent grant or the pool filled up
			// between the pre-check and here. Same answer either way.
			return errors.NewNoSeatsAvailableError(sub.QuantityPurchased(), observedAssigned)
		}

		if err := uc.assignmentRepo.Create(txCtx, assignment); err != nil {
			if errors.IsConflictError(err) {
				return errors.NewConflictError(licensing.ErrUserAlreadyHasLicense.Error())
			}
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterGrant(ctx, assignment, app)

	uc.logger.Infow("license granted",
		"assignment_id", assignment.ID(),
		"tenant_id", cmd.TenantID,
		"user_id", cmd.UserID,
		"application_id", cmd.ApplicationID,
		"license_type_id", cmd.LicenseTypeID)

	return assignment, nil
}

// afterGrant runs the post-commit side effects. None of them can undo the
// grant; failures are logged and the seat stays assigned.
func (uc *GrantLicenseUseCase) afterGrant(ctx context.Context, assignment *licensing.LicenseAssignment, app *catalog.Application) {
	assignmentID := assignment.ID()
	if _, err := uc.accessService.GrantAccess(ctx, assignment.TenantID(), assignment.UserID(),
		assignment.ApplicationID(), access.AccessTypeGranted, assignment.AssignedByID(), &assignmentID); err != nil {
		uc.logger.Errorw("failed to grant app access after license grant",
			"error", err,
			"assignment_id", assignment.ID(),
			"user_id", assignment.UserID())
	}

	appendAudit(ctx, uc.auditRepo, uc.logger,
		assignment.TenantID(), assignment.UserID(), assignment.ApplicationID(),
		licensing.AuditActionGranted, assignment.LicenseTypeID(), assignment.LicenseTypeName(),
		nil, assignment.AssignedByID())

	uc.events.publish(licensing.NewLicenseAssignedEvent(assignment))
	uc.events.emit("license.assigned", assignment.TenantID(), assignment.UserID(),
		assignment.ApplicationID(), assignment.LicenseTypeID(), assignment.LicenseTypeName(), nil)

	uc.invalidateOverview(ctx, assignment.TenantID())
	uc.sendAssignedNotice(assignment, app)
}

func (uc *GrantLicenseUseCase) invalidateOverview(ctx context.Context, tenantID uint) {
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

func (uc *GrantLicenseUseCase) sendAssignedNotice(assignment *licensing.LicenseAssignment, app *catalog.Application) {
	if uc.notifier == nil || uc.directory == nil {
		return
	}
	userID := assignment.UserID()
	appName := app.Name()
	licenseTypeName := assignment.LicenseTypeName()

	goroutine.SafeGo(uc.logger, "seat-assigned-notice", func() {
		profile, err := uc.directory.Lookup(context.Background(), userID)
		if err != nil || profile == nil || profile.Email == "" {
			return
		}
		if err := uc.notifier.SendSeatAssignedNotice(profile.Email, profile.DisplayName, appName, licenseTypeName); err != nil {
			uc.logger.Warnw("failed to send seat assigned notice", "error", err, "user_id", userID)
		}
	})
}

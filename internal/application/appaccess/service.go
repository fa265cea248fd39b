// Package appaccess answers "can this user use this app right now" and owns
// every transition of the access records, independent of how access was
// obtained.
package appaccess

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/webhook"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/goroutine"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// CheckAccessResult is the answer of a single access check
type CheckAccessResult struct {
	HasAccess  bool
	AccessType string
	Status     string
	Reason     string
}

// Service implements the access record state machine
type Service struct {
	accessRepo      access.Repository
	applicationRepo catalog.ApplicationRepository
	tenantRepo      tenant.Repository
	membershipRepo  tenant.MembershipRepository
	emitter         webhook.Emitter
	directory       directory.Directory
	logger          logger.Interface
}

// NewService creates a new app access service
func NewService(
	accessRepo access.Repository,
	applicationRepo catalog.ApplicationRepository,
	tenantRepo tenant.Repository,
	membershipRepo tenant.MembershipRepository,
	emitter webhook.Emitter,
	dir directory.Directory,
	log logger.Interface,
) *Service {
	return &Service{
		accessRepo:      accessRepo,
		applicationRepo: applicationRepo,
		tenantRepo:      tenantRepo,
		membershipRepo:  membershipRepo,
		emitter:         emitter,
		directory:       dir,
		logger:          log,
	}
}

// GrantAccess creates or reactivates an access record. Granting to an
// already-ACTIVE record only refreshes the assignment back-reference and is
// otherwise a no-op; no duplicate rows are ever created.
func (s *Service) GrantAccess(
	ctx context.Context,
	tenantID, userID, applicationID uint,
	accessType access.AccessType,
	grantedByID *uint,
	assignmentID *uint,
) (*access.AppAccess, error) {
	record, err := s.accessRepo.GetByUserTenantApp(ctx, userID, tenantID, applicationID)
	if err != nil && !errors.IsNotFoundError(err) {
		s.logger.Errorw("failed to load access record", "error", err, "user_id", userID, "tenant_id", tenantID)
		return nil, fmt.Errorf("failed to load access record: %w", err)
	}

	if record == nil {
		sid, err := id.NewAccessID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate access ID: %w", err)
		}

		record, err = access.NewAppAccess(sid, tenantID, userID, applicationID, accessType, grantedByID, assignmentID)
		if err != nil {
			return nil, errors.NewValidationError("invalid access grant", err.Error())
		}

		if err := s.accessRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create access record: %w", err)
		}

		s.emitAccessEvent(ctx, "app_access.granted", record)
		return record, nil
	}

	if record.IsActive() {
		if record.UpdateAssignmentRef(assignmentID) {
			if err := s.accessRepo.Update(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to update access record: %w", err)
			}
		}
		return record, nil
	}

	if err := record.Reactivate(accessType, grantedByID, assignmentID); err != nil {
		return nil, errors.NewValidationError("cannot reactivate access", err.Error())
	}
	if err := s.accessRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to reactivate access record: %w", err)
	}

	s.emitAccessEvent(ctx, "app_access.granted", record)
	return record, nil
}

// RevokeAccess transitions a record to REVOKED. Revoking a record that is
// already REVOKED succeeds without another event; a missing record is NotFound.
func (s *Service) RevokeAccess(ctx context.Context, tenantID, userID, applicationID uint, revokedByID *uint) error {
	record, err := s.accessRepo.GetByUserTenantApp(ctx, userID, tenantID, applicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError("access record not found")
		}
		return fmt.Errorf("failed to load access record: %w", err)
	}

	if record.Status() == access.AccessStatusRevoked {
		return nil
	}

	if err := record.Revoke(revokedByID); err != nil {
		return errors.NewValidationError("cannot revoke access", err.Error())
	}
	if err := s.accessRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to revoke access record: %w", err)
	}

	s.emitAccessEvent(ctx, "app_access.revoked", record)
	return nil
}

// SuspendAccess transitions an ACTIVE record to SUSPENDED. Suspension is an
// internal state; no webhook is emitted.
func (s *Service) SuspendAccess(ctx context.Context, tenantID, userID, applicationID uint) error {
	record, err := s.accessRepo.GetByUserTenantApp(ctx, userID, tenantID, applicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewNotFoundError("access record not found")
		}
		return fmt.Errorf("failed to load access record: %w", err)
	}

	if err := record.Suspend(); err != nil {
		return errors.NewBadRequestError("cannot suspend access", err.Error())
	}
	if err := s.accessRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to suspend access record: %w", err)
	}

	s.logger.Infow("access suspended",
		"tenant_id", tenantID,
		"user_id", userID,
		"application_id", applicationID)
	return nil
}

// CheckAccess answers whether a user may use an application right now,
// distinguishing never-granted from revoked from suspended.
func (s *Service) CheckAccess(ctx context.Context, tenantID, userID, applicationID uint) (*CheckAccessResult, error) {
	record, err := s.accessRepo.GetByUserTenantApp(ctx, userID, tenantID, applicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &CheckAccessResult{HasAccess: false, Reason: "access never granted"}, nil
		}
		return nil, fmt.Errorf("failed to load access record: %w", err)
	}

	result := &CheckAccessResult{
		AccessType: record.AccessType().String(),
		Status:     record.Status().String(),
	}
	switch record.Status() {
	case access.AccessStatusActive:
		result.HasAccess = true
	case access.AccessStatusRevoked:
		result.Reason = "access revoked"
	case access.AccessStatusSuspended:
		result.Reason = "access suspended"
	}
	return result, nil
}

// CheckAccessBulk answers CheckAccess for a set of applications in one call
func (s *Service) CheckAccessBulk(ctx context.Context, tenantID, userID uint, applicationIDs []uint) (map[uint]*CheckAccessResult, error) {
	records, err := s.accessRepo.ListByUserAndTenant(ctx, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list access records: %w", err)
	}

	byApp := make(map[uint]*access.AppAccess, len(records))
	for _, r := range records {
		byApp[r.ApplicationID()] = r
	}

	results := make(map[uint]*CheckAccessResult, len(applicationIDs))
	for _, appID := range applicationIDs {
		record, ok := byApp[appID]
		if !ok {
			results[appID] = &CheckAccessResult{HasAccess: false, Reason: "access never granted"}
			continue
		}
		result := &CheckAccessResult{
			AccessType: record.AccessType().String(),
			Status:     record.Status().String(),
		}
		switch record.Status() {
		case access.AccessStatusActive:
			result.HasAccess = true
		case access.AccessStatusRevoked:
			result.Reason = "access revoked"
		case access.AccessStatusSuspended:
			result.Reason = "access suspended"
		}
		results[appID] = result
	}
	return results, nil
}

// RevokeAllForUser revokes every access record a user holds in a tenant,
// emitting one revoked event per application. Used when a member leaves.
func (s *Service) RevokeAllForUser(ctx context.Context, tenantID, userID uint, revokedByID *uint) error {
	records, err := s.accessRepo.ListByUserAndTenant(ctx, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list access records: %w", err)
	}

	for _, record := range records {
		if record.Status() == access.AccessStatusRevoked {
			continue
		}
		if err := record.Revoke(revokedByID); err != nil {
			s.logger.Warnw("skipping access revoke", "error", err, "access_id", record.ID())
			continue
		}
		if err := s.accessRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to revoke access record: %w", err)
		}
		s.emitAccessEvent(ctx, "app_access.revoked", record)
	}
	return nil
}

// AutoGrantFreeApps grants a user ACTIVE access to every AUTOMATIC-mode
// application, skipping records that already exist.
func (s *Service) AutoGrantFreeApps(ctx context.Context, tenantID, userID uint) error {
	apps, err := s.applicationRepo.ListByAccessModes(ctx, []catalog.AccessMode{catalog.AccessModeAutomatic})
	if err != nil {
		return fmt.Errorf("failed to list automatic applications: %w", err)
	}

	return s.bulkGrant(ctx, tenantID, []uint{userID}, apps, access.AccessTypeAutoFree)
}

// AutoGrantTenantWideApps grants a user access to applications the tenant
// holds a usable TENANT_WIDE subscription for. The caller supplies the
// application set since subscription lookup lives in the pool.
func (s *Service) AutoGrantTenantWideApps(ctx context.Context, tenantID, userID uint, applications []*catalog.Application) error {
	return s.bulkGrant(ctx, tenantID, []uint{userID}, applications, access.AccessTypeAutoTenant)
}

// AutoGrantOwnerAccess grants the tenant owner access during provisioning
func (s *Service) AutoGrantOwnerAccess(ctx context.Context, tenantID, ownerUserID uint, applications []*catalog.Application) error {
	return s.bulkGrant(ctx, tenantID, []uint{ownerUserID}, applications, access.AccessTypeAutoOwner)
}

// GrantAccessToAllMembers grants every ACTIVE tenant member access to one
// application, skipping existing records.
func (s *Service) GrantAccessToAllMembers(ctx context.Context, tenantID uint, application *catalog.Application, accessType access.AccessType) error {
	memberships, err := s.membershipRepo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list memberships: %w", err)
	}

	userIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID())
	}
	return s.bulkGrant(ctx, tenantID, userIDs, []*catalog.Application{application}, accessType)
}

// bulkGrant inserts access rows for the (user, application) cross product
// with skip-existing semantics, firing one event per genuinely new row.
func (s *Service) bulkGrant(ctx context.Context, tenantID uint, userIDs []uint, apps []*catalog.Application, accessType access.AccessType) error {
	if len(userIDs) == 0 || len(apps) == 0 {
		return nil
	}

	records := make([]*access.AppAccess, 0, len(userIDs)*len(apps))
	for _, userID := range userIDs {
		for _, app := range apps {
			sid, err := id.NewAccessID()
			if err != nil {
				return fmt.Errorf("failed to generate access ID: %w", err)
			}
			record, err := access.NewAppAccess(sid, tenantID, userID, app.ID(), accessType, nil, nil)
			if err != nil {
				return errors.NewValidationError("invalid access grant", err.Error())
			}
			records = append(records, record)
		}
	}

	inserted, err := s.accessRepo.CreateSkipExisting(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to bulk insert access records: %w", err)
	}

	for _, record := range inserted {
		s.emitAccessEvent(ctx, "app_access.granted", record)
	}
	return nil
}

// emitAccessEvent publishes an access webhook post-commit, best-effort
func (s *Service) emitAccessEvent(ctx context.Context, name string, record *access.AppAccess) {
	tenantID := record.TenantID()
	userID := record.UserID()
	applicationID := record.ApplicationID()
	accessType := record.AccessType().String()

	goroutine.SafeGo(s.logger, "access-webhook", func() {
		bgCtx := context.Background()

		tenantSID, applicationSID := s.resolveSIDs(bgCtx, tenantID, applicationID)
		sub := s.resolveSub(bgCtx, userID)

		if err := s.emitter.Emit(bgCtx, name, sub, tenantSID, applicationSID, map[string]any{
			"access_type": accessType,
		}); err != nil {
			s.logger.Warnw("failed to emit access webhook",
				"error", err,
				"event", name,
				"tenant_id", tenantID,
				"user_id", userID)
		}
	})
}

func (s *Service) resolveSIDs(ctx context.Context, tenantID, applicationID uint) (string, string) {
	tenantSID := ""
	if t, err := s.tenantRepo.GetByID(ctx, tenantID); err == nil && t != nil {
		tenantSID = t.SID()
	}
	applicationSID := ""
	if app, err := s.applicationRepo.GetByID(ctx, applicationID); err == nil && app != nil {
		applicationSID = app.SID()
	}
	return tenantSID, applicationSID
}

func (s *Service) resolveSub(ctx context.Context, userID uint) string {
	if s.directory != nil {
		if profile, err := s.directory.Lookup(ctx, userID); err == nil && profile != nil && profile.Sub != "" {
			return profile.Sub
		}
	}
	return fmt.Sprintf("%d", userID)
}

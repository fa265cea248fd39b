package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/shared/events"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/webhook"
	"github.com/fed-stew/authvital-sub001/internal/shared/goroutine"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// LicenseEventEmitter resolves external identifiers and fires license
// lifecycle webhooks off the request path. All lookups run against
// background context so a canceled request cannot drop an event.
type LicenseEventEmitter struct {
	emitter         webhook.Emitter
	dispatcher      events.EventPublisher
	tenantRepo      tenant.Repository
	applicationRepo catalog.ApplicationRepository
	licenseTypeRepo catalog.LicenseTypeRepository
	directory       directory.Directory
	logger          logger.Interface
}

func NewLicenseEventEmitter(
	emitter webhook.Emitter,
	dispatcher events.EventPublisher,
	tenantRepo tenant.Repository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	dir directory.Directory,
	logger logger.Interface,
) *LicenseEventEmitter {
	return &LicenseEventEmitter{
		emitter:         emitter,
		dispatcher:      dispatcher,
		tenantRepo:      tenantRepo,
		applicationRepo: applicationRepo,
		licenseTypeRepo: licenseTypeRepo,
		directory:       dir,
		logger:          logger,
	}
}

// publish hands a domain event to the in-process dispatcher for internal
// listeners. Webhooks to external consumers go through emit instead.
func (e *LicenseEventEmitter) publish(event events.DomainEvent) {
	if e.dispatcher == nil {
		return
	}
	if err := e.dispatcher.Publish(event); err != nil {
		e.logger.Warnw("failed to publish domain event",
			"event_type", event.GetEventType(),
			"error", err)
	}
}

// emit publishes a license.* event for an assignment. previousLicenseTypeID
// is set only for license.changed.
func (e *LicenseEventEmitter) emit(name string, tenantID, userID, applicationID, licenseTypeID uint, licenseTypeName string, previousLicenseTypeID *uint) {
	if e.emitter == nil {
		return
	}

	goroutine.SafeGo(e.logger, "license-webhook", func() {
		ctx := context.Background()

		tenantSID := ""
		if t, err := e.tenantRepo.GetByID(ctx, tenantID); err == nil && t != nil {
			tenantSID = t.SID()
		}
		applicationSID := ""
		if app, err := e.applicationRepo.GetByID(ctx, applicationID); err == nil && app != nil {
			applicationSID = app.SID()
		}

		payload := map[string]any{
			"license_type_id":   e.resolveLicenseTypeSID(ctx, licenseTypeID),
			"license_type_name": licenseTypeName,
		}
		if previousLicenseTypeID != nil {
			payload["previous_license_type_id"] = e.resolveLicenseTypeSID(ctx, *previousLicenseTypeID)
		}

		sub := e.resolveSub(ctx, userID)
		payload["sub"] = sub

		if err := e.emitter.Emit(ctx, name, sub, tenantSID, applicationSID, payload); err != nil {
			e.logger.Warnw("failed to emit license webhook",
				"error", err,
				"event", name,
				"tenant_id", tenantID,
				"user_id", userID)
		}
	})
}

func (e *LicenseEventEmitter) resolveLicenseTypeSID(ctx context.Context, licenseTypeID uint) string {
	if lt, err := e.licenseTypeRepo.GetByID(ctx, licenseTypeID); err == nil && lt != nil {
		return lt.SID()
	}
	return ""
}

func (e *LicenseEventEmitter) resolveSub(ctx context.Context, userID uint) string {
	if e.directory != nil {
		if profile, err := e.directory.Lookup(ctx, userID); err == nil && profile != nil {
			return profile.Sub
		}
	}
	return fmt.Sprintf("%d", userID)
}

// appendAudit writes an audit entry outside the mutation transaction. The
// log is best-effort; a failed append never rolls back the grant.
func appendAudit(
	ctx context.Context,
	repo licensing.AuditLogRepository,
	log logger.Interface,
	tenantID, userID, applicationID uint,
	action licensing.AuditAction,
	licenseTypeID uint,
	licenseTypeName string,
	previousLicenseTypeID *uint,
	actorID *uint,
) {
	sid, err := id.NewAuditEntryID()
	if err != nil {
		log.Errorw("failed to generate audit entry ID", "error", err)
		return
	}

	entry, err := licensing.NewAuditEntry(sid, tenantID, userID, applicationID,
		action, licenseTypeID, licenseTypeName, previousLicenseTypeID, actorID)
	if err != nil {
		log.Errorw("failed to build audit entry", "error", err, "action", action)
		return
	}

	if err := repo.Append(ctx, entry); err != nil {
		log.Errorw("failed to append audit entry",
			"error", err,
			"action", action,
			"tenant_id", tenantID,
			"user_id", userID)
	}
}

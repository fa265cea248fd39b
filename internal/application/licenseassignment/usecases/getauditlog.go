package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// AuditEntryView is one audit log row for API responses.
type AuditEntryView struct {
	ID                    string    `json:"id"`
	UserID                uint      `json:"user_id"`
	ApplicationID         uint      `json:"application_id"`
	Action                string    `json:"action"`
	LicenseTypeID         uint      `json:"license_type_id"`
	LicenseTypeName       string    `json:"license_type_name"`
	PreviousLicenseTypeID *uint     `json:"previous_license_type_id,omitempty"`
	ActorID               *uint     `json:"actor_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// AuditLogPage is a page of audit entries, newest first.
type AuditLogPage struct {
	Entries []AuditEntryView `json:"entries"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type GetAuditLogUseCase struct {
	auditRepo licensing.AuditLogRepository
	logger    logger.Interface
}

func NewGetAuditLogUseCase(auditRepo licensing.AuditLogRepository, logger logger.Interface) *GetAuditLogUseCase {
	return &GetAuditLogUseCase{auditRepo: auditRepo, logger: logger}
}

// Execute returns a page of a tenant's license audit trail, newest first.
func (uc *GetAuditLogUseCase) Execute(ctx context.Context, tenantID uint, limit, offset int) (*AuditLogPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := uc.auditRepo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	total, err := uc.auditRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	views := make([]AuditEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, AuditEntryView{
			ID:                    e.SID(),
			UserID:                e.UserID(),
			ApplicationID:         e.ApplicationID(),
			Action:                string(e.Action()),
			LicenseTypeID:         e.LicenseTypeID(),
			LicenseTypeName:       e.LicenseTypeName(),
			PreviousLicenseTypeID: e.PreviousLicenseTypeID(),
			ActorID:               e.ActorID(),
			CreatedAt:             e.CreatedAt(),
		})
	}

	return &AuditLogPage{Entries: views, Total: total, Limit: limit, Offset: offset}, nil
}

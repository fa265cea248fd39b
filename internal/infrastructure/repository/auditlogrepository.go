package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/mappers"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// AuditLogRepositoryImpl implements the licensing.AuditLogRepository interface
type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AuditEntryMapper
	logger logger.Interface
}

// NewAuditLogRepository creates a new audit log repository instance
func NewAuditLogRepository(gdb *gorm.DB, log logger.Interface) licensing.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAuditEntryMapper(),
		logger: log,
	}
}

// Append writes a new audit entry. The log is append-only.
func (r *AuditLogRepositoryImpl) Append(ctx context.Context, entry *licensing.AuditEntry) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		return fmt.Errorf("failed to map audit entry: %w", err)
	}

	// Audit writes run after the primary commit; never join an active tx.
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append audit entry",
			"tenant_id", entry.TenantID(),
			"user_id", entry.UserID(),
			"action", entry.Action(),
			"error", err)
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set audit entry ID: %w", err)
	}

	return nil
}

// ListByTenant retrieves audit entries for a tenant, newest first
func (r *AuditLogRepositoryImpl) ListByTenant(ctx context.Context, tenantID uint, limit, offset int) ([]*licensing.AuditEntry, error) {
	var entryModels []*models.LicenseAuditLogModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return r.mapper.ToEntities(entryModels)
}

// CountByTenant counts audit entries for a tenant
func (r *AuditLogRepositoryImpl) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.LicenseAuditLogModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}

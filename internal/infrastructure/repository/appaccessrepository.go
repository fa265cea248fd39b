package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/mappers"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// AppAccessRepositoryImpl implements the access.Repository interface
type AppAccessRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AppAccessMapper
	logger logger.Interface
}

// NewAppAccessRepository creates a new app access repository instance
func NewAppAccessRepository(gdb *gorm.DB, log logger.Interface) access.Repository {
	return &AppAccessRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAppAccessMapper(),
		logger: log,
	}
}

// Create creates a new access record
func (r *AppAccessRepositoryImpl) Create(ctx context.Context, a *access.AppAccess) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return fmt.Errorf("failed to map access record: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("access record already exists")
		}
		r.logger.Errorw("failed to create access record",
			"tenant_id", a.TenantID(),
			"user_id", a.UserID(),
			"application_id", a.ApplicationID(),
			"error", err)
		return fmt.Errorf("failed to create access record: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set access ID: %w", err)
	}

	r.logger.Infow("access record created",
		"id", model.ID,
		"sid", model.SID,
		"user_id", model.UserID,
		"application_id", model.ApplicationID,
		"access_type", model.AccessType)

	return nil
}

// Update updates an existing access record
func (r *AppAccessRepositoryImpl) Update(ctx context.Context, a *access.AppAccess) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AppAccessModel{}).
		Where("id = ?", a.ID()).
		Updates(map[string]interface{}{
			"access_type":   string(a.AccessType()),
			"status":        string(a.Status()),
			"granted_at":    a.GrantedAt(),
			"granted_by_id": a.GrantedByID(),
			"revoked_at":    a.RevokedAt(),
			"revoked_by_id": a.RevokedByID(),
			"assignment_id": a.AssignmentID(),
			"version":       a.Version(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update access record", "id", a.ID(), "error", result.Error)
		return fmt.Errorf("failed to update access record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("access record not found")
	}

	return nil
}

// GetByUserTenantApp retrieves the access record for a (user, tenant, application) triple
func (r *AppAccessRepositoryImpl) GetByUserTenantApp(ctx context.Context, userID, tenantID, applicationID uint) (*access.AppAccess, error) {
	var model models.AppAccessModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ? AND tenant_id = ? AND application_id = ?",
		userID, tenantID, applicationID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("access record not found")
		}
		return nil, fmt.Errorf("failed to get access record: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByID retrieves an access record by ID
func (r *AppAccessRepositoryImpl) GetByID(ctx context.Context, id uint) (*access.AppAccess, error) {
	var model models.AppAccessModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("access record not found")
		}
		return nil, fmt.Errorf("failed to get access record: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// ListByUserAndTenant retrieves all access records a user has within a tenant
func (r *AppAccessRepositoryImpl) ListByUserAndTenant(ctx context.Context, userID, tenantID uint) ([]*access.AppAccess, error) {
	var accessModels []*models.AppAccessModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		Find(&accessModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list access records: %w", err)
	}

	return r.mapper.ToEntities(accessModels)
}

// ListActiveByTenantAndApp retrieves all ACTIVE records for a tenant+application
func (r *AppAccessRepositoryImpl) ListActiveByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*access.AppAccess, error) {
	var accessModels []*models.AppAccessModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND application_id = ? AND status = ?",
		tenantID, applicationID, string(access.AccessStatusActive)).
		Find(&accessModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list access records: %w", err)
	}

	return r.mapper.ToEntities(accessModels)
}

// CreateSkipExisting inserts a batch of access records, silently skipping
// rows whose (user, tenant, application) key already exists. Returns the
// records that were genuinely inserted so callers can fire one event each.
func (r *AppAccessRepositoryImpl) CreateSkipExisting(ctx context.Context, records []*access.AppAccess) ([]*access.AppAccess, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	inserted := make([]*access.AppAccess, 0, len(records))

	for _, rec := range records {
		model, err := r.mapper.ToModel(rec)
		if err != nil {
			return inserted, fmt.Errorf("failed to map access record: %w", err)
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
		if result.Error != nil {
			r.logger.Errorw("failed to insert access record",
				"user_id", rec.UserID(),
				"application_id", rec.ApplicationID(),
				"error", result.Error)
			return inserted, fmt.Errorf("failed to insert access record: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}

		if err := rec.SetID(model.ID); err != nil {
			return inserted, fmt.Errorf("failed to set access ID: %w", err)
		}
		inserted = append(inserted, rec)
	}

	r.logger.Infow("bulk access insert complete",
		"requested", len(records),
		"inserted", len(inserted))

	return inserted, nil
}

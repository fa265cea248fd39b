package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/mappers"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// AssignmentRepositoryImpl implements the licensing.AssignmentRepository interface
type AssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AssignmentMapper
	logger logger.Interface
}

// NewAssignmentRepository creates a new assignment repository instance
func NewAssignmentRepository(gdb *gorm.DB, log logger.Interface) licensing.AssignmentRepository {
	return &AssignmentRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAssignmentMapper(),
		logger: log,
	}
}

// Create creates a new assignment
func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *licensing.LicenseAssignment) error {
	model, err := r.mapper.ToModel(assignment)
	if err != nil {
		return fmt.Errorf("failed to map assignment: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("user already has a license for this application")
		}
		r.logger.Errorw("failed to create assignment",
			"tenant_id", assignment.TenantID(),
			"user_id", assignment.UserID(),
			"application_id", assignment.ApplicationID(),
			"error", err)
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := assignment.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set assignment ID: %w", err)
	}

	r.logger.Infow("assignment created",
		"id", model.ID,
		"sid", model.SID,
		"tenant_id", model.TenantID,
		"user_id", model.UserID,
		"application_id", model.ApplicationID)

	return nil
}

// Update updates an existing assignment (change-type path)
func (r *AssignmentRepositoryImpl) Update(ctx context.Context, assignment *licensing.LicenseAssignment) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.LicenseAssignmentModel{}).
		Where("id = ?", assignment.ID()).
		Updates(map[string]interface{}{
			"subscription_id":   assignment.SubscriptionID(),
			"license_type_id":   assignment.LicenseTypeID(),
			"license_type_name": assignment.LicenseTypeName(),
			"assigned_at":       assignment.AssignedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update assignment", "id", assignment.ID(), "error", result.Error)
		return fmt.Errorf("failed to update assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("license assignment not found")
	}

	return nil
}

// Delete hard-deletes an assignment so the unique key can be reused
func (r *AssignmentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.LicenseAssignmentModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete assignment", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("license assignment not found")
	}

	r.logger.Infow("assignment deleted", "id", id)
	return nil
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepositoryImpl) GetByID(ctx context.Context, id uint) (*licensing.LicenseAssignment, error) {
	var model models.LicenseAssignmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("license assignment not found")
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByTenantUserApp retrieves the single assignment for a (tenant, user, application) triple
func (r *AssignmentRepositoryImpl) GetByTenantUserApp(ctx context.Context, tenantID, userID, applicationID uint) (*licensing.LicenseAssignment, error) {
	var model models.LicenseAssignmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND user_id = ? AND application_id = ?",
		tenantID, userID, applicationID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("license assignment not found")
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// ListByUser retrieves all assignments a user holds within a tenant
func (r *AssignmentRepositoryImpl) ListByUser(ctx context.Context, tenantID, userID uint) ([]*licensing.LicenseAssignment, error) {
	var assignmentModels []*models.LicenseAssignmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Find(&assignmentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return r.mapper.ToEntities(assignmentModels)
}

// ListByTenantAndApp retrieves all assignments for a tenant+application
func (r *AssignmentRepositoryImpl) ListByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*licensing.LicenseAssignment, error) {
	var assignmentModels []*models.LicenseAssignmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND application_id = ?", tenantID, applicationID).
		Order("assigned_at DESC").
		Find(&assignmentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return r.mapper.ToEntities(assignmentModels)
}

// ListBySubscription retrieves all assignments consuming a subscription's seats
func (r *AssignmentRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*licensing.LicenseAssignment, error) {
	var assignmentModels []*models.LicenseAssignmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("subscription_id = ?", subscriptionID).
		Find(&assignmentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return r.mapper.ToEntities(assignmentModels)
}

// CountBySubscription counts assignments consuming a subscription's seats
func (r *AssignmentRepositoryImpl) CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.LicenseAssignmentModel{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return count, nil
}

// DeleteBySubscription hard-deletes all assignments of a subscription (expire path)
func (r *AssignmentRepositoryImpl) DeleteBySubscription(ctx context.Context, subscriptionID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("subscription_id = ?", subscriptionID).
		Delete(&models.LicenseAssignmentModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete assignments by subscription",
			"subscription_id", subscriptionID,
			"error", result.Error)
		return fmt.Errorf("failed to delete assignments: %w", result.Error)
	}

	r.logger.Infow("assignments deleted for subscription",
		"subscription_id", subscriptionID,
		"count", result.RowsAffected)
	return nil
}

// Exists checks whether an assignment exists for a (tenant, user, application) triple
func (r *AssignmentRepositoryImpl) Exists(ctx context.Context, tenantID, userID, applicationID uint) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.LicenseAssignmentModel{}).
		Where("tenant_id = ? AND user_id = ? AND application_id = ?", tenantID, userID, applicationID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check assignment existence: %w", err)
	}

	return count > 0, nil
}

// Package repository provides gorm-backed implementations of the domain
// repository ports.
package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/mappers"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// SubscriptionRepositoryImpl implements the licensing.SubscriptionRepository interface
type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(gdb *gorm.DB, log logger.Interface) licensing.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewSubscriptionMapper(),
		logger: log,
	}
}

// Create creates a new subscription
func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *licensing.AppSubscription) error {
	model, err := r.mapper.ToModel(sub)
	if err != nil {
		return fmt.Errorf("failed to map subscription: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("subscription already exists for this tenant, application and license type")
		}
		r.logger.Errorw("failed to create subscription",
			"tenant_id", sub.TenantID(),
			"application_id", sub.ApplicationID(),
			"error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created",
		"id", model.ID,
		"sid", model.SID,
		"tenant_id", model.TenantID,
		"application_id", model.ApplicationID,
		"quantity_purchased", model.QuantityPurchased)

	return nil
}

// Update updates subscription fields except the assigned counter.
// quantity_assigned is deliberately omitted: only the conditional counter
// methods touch that column.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *licensing.AppSubscription) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AppSubscriptionModel{}).
		Where("id = ?", sub.ID()).
		Updates(map[string]interface{}{
			"quantity_purchased": sub.QuantityPurchased(),
			"status":             string(sub.Status()),
			"current_period_end": sub.CurrentPeriodEnd(),
			"auto_renew":         sub.AutoRenew(),
			"canceled_at":        sub.CanceledAt(),
			"version":            sub.Version(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", sub.ID(), "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("subscription not found")
	}

	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*licensing.AppSubscription, error) {
	var model models.AppSubscriptionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a subscription by short ID
func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*licensing.AppSubscription, error) {
	var model models.AppSubscriptionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByTenantAppType retrieves the subscription for a (tenant, application, licenseType) triple
func (r *SubscriptionRepositoryImpl) GetByTenantAppType(ctx context.Context, tenantID, applicationID, licenseTypeID uint) (*licensing.AppSubscription, error) {
	var model models.AppSubscriptionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND application_id = ? AND license_type_id = ?",
		tenantID, applicationID, licenseTypeID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// ListUsableByTenantAndApp retrieves all ACTIVE/TRIALING subscriptions for a tenant+application
func (r *SubscriptionRepositoryImpl) ListUsableByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*licensing.AppSubscription, error) {
	var subModels []*models.AppSubscriptionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND application_id = ? AND status IN ?",
		tenantID, applicationID, usableStatusStrings()).Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subModels)
}

// ListUsableByTenant retrieves all ACTIVE/TRIALING subscriptions for a tenant
func (r *SubscriptionRepositoryImpl) ListUsableByTenant(ctx context.Context, tenantID uint) ([]*licensing.AppSubscription, error) {
	var subModels []*models.AppSubscriptionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND status IN ?", tenantID, usableStatusStrings()).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subModels)
}

// ListPastDuePeriod retrieves usable subscriptions whose current period has lapsed
func (r *SubscriptionRepositoryImpl) ListPastDuePeriod(ctx context.Context) ([]*licensing.AppSubscription, error) {
	var subModels []*models.AppSubscriptionModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("status IN ? AND current_period_end IS NOT NULL AND current_period_end < ?",
		usableStatusStrings(), time.Now()).Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subModels)
}

// IncrementAssigned consumes one seat with a compare-and-swap over the
// persisted counter. The WHERE clause re-checks both the observed value and
// remaining capacity so the invariant assigned <= purchased holds no matter
// how many writers race. Zero affected rows means the caller lost.
func (r *SubscriptionRepositoryImpl) IncrementAssigned(ctx context.Context, subscriptionID uint, observedAssigned int) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AppSubscriptionModel{}).
		Where("id = ? AND quantity_assigned = ? AND quantity_purchased > ?",
			subscriptionID, observedAssigned, observedAssigned).
		Updates(map[string]interface{}{
			"quantity_assigned": gorm.Expr("quantity_assigned + 1"),
			"version":           gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment assigned count",
			"subscription_id", subscriptionID,
			"observed_assigned", observedAssigned,
			"error", result.Error)
		return false, fmt.Errorf("failed to increment assigned count: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Debugw("conditional increment matched no rows",
			"subscription_id", subscriptionID,
			"observed_assigned", observedAssigned)
		return false, nil
	}

	return true, nil
}

// DecrementAssigned releases one seat, flooring at zero. A counter already
// at zero makes this a silent no-op.
func (r *SubscriptionRepositoryImpl) DecrementAssigned(ctx context.Context, subscriptionID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AppSubscriptionModel{}).
		Where("id = ? AND quantity_assigned > 0", subscriptionID).
		Updates(map[string]interface{}{
			"quantity_assigned": gorm.Expr("quantity_assigned - 1"),
			"version":           gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to decrement assigned count",
			"subscription_id", subscriptionID,
			"error", result.Error)
		return fmt.Errorf("failed to decrement assigned count: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Warnw("decrement skipped, counter already at zero",
			"subscription_id", subscriptionID)
	}

	return nil
}

// SetAssignedCount overwrites the counter. Reconcile and expire only.
func (r *SubscriptionRepositoryImpl) SetAssignedCount(ctx context.Context, subscriptionID uint, count int) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AppSubscriptionModel{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]interface{}{
			"quantity_assigned": count,
			"version":           gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set assigned count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("subscription not found")
	}

	r.logger.Infow("assigned count overwritten",
		"subscription_id", subscriptionID,
		"count", count)
	return nil
}

// Delete soft-deletes a subscription (tenant deletion cascade only)
func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.AppSubscriptionModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("subscription not found")
	}

	r.logger.Infow("subscription deleted", "id", id)
	return nil
}

func usableStatusStrings() []string {
	statuses := licensing.UsableStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

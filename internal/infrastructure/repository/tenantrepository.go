package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/mappers"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// TenantRepositoryImpl implements the tenant.Repository interface
type TenantRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TenantMapper
	logger logger.Interface
}

// NewTenantRepository creates a new tenant repository instance
func NewTenantRepository(gdb *gorm.DB, log logger.Interface) tenant.Repository {
	return &TenantRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewTenantMapper(),
		logger: log,
	}
}

// Create creates a new tenant
func (r *TenantRepositoryImpl) Create(ctx context.Context, t *tenant.Tenant) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map tenant: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("tenant slug already in use")
		}
		r.logger.Errorw("failed to create tenant", "name", t.Name(), "error", err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set tenant ID: %w", err)
	}

	r.logger.Infow("tenant created", "id", model.ID, "sid", model.SID, "slug", model.Slug)
	return nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepositoryImpl) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	var model models.TenantModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("tenant not found")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a tenant by short ID
func (r *TenantRepositoryImpl) GetBySID(ctx context.Context, sid string) (*tenant.Tenant, error) {
	var model models.TenantModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("tenant not found")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySlug retrieves a tenant by slug
func (r *TenantRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	var model models.TenantModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("slug = ?", slug).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("tenant not found")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// MembershipRepositoryImpl implements the tenant.MembershipRepository interface
type MembershipRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MembershipMapper
	logger logger.Interface
}

// NewMembershipRepository creates a new membership repository instance
func NewMembershipRepository(gdb *gorm.DB, log logger.Interface) tenant.MembershipRepository {
	return &MembershipRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewMembershipMapper(),
		logger: log,
	}
}

// Create creates a new membership
func (r *MembershipRepositoryImpl) Create(ctx context.Context, m *tenant.Membership) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map membership: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("user is already a member of this tenant")
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}

	if err := m.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set membership ID: %w", err)
	}

	r.logger.Infow("membership created",
		"id", model.ID,
		"tenant_id", model.TenantID,
		"user_id", model.UserID,
		"role", model.Role)
	return nil
}

// GetByTenantAndUser retrieves a user's membership in a tenant
func (r *MembershipRepositoryImpl) GetByTenantAndUser(ctx context.Context, tenantID, userID uint) (*tenant.Membership, error) {
	var model models.TenantMembershipModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("membership not found")
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// ListActiveByTenant retrieves all ACTIVE memberships of a tenant
func (r *MembershipRepositoryImpl) ListActiveByTenant(ctx context.Context, tenantID uint) ([]*tenant.Membership, error) {
	var membershipModels []*models.TenantMembershipModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ? AND status = ?",
		tenantID, string(tenant.MembershipStatusActive)).
		Find(&membershipModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	return r.mapper.ToEntities(membershipModels)
}

// ListByTenant retrieves all memberships of a tenant regardless of status
func (r *MembershipRepositoryImpl) ListByTenant(ctx context.Context, tenantID uint) ([]*tenant.Membership, error) {
	var membershipModels []*models.TenantMembershipModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("tenant_id = ?", tenantID).
		Find(&membershipModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	return r.mapper.ToEntities(membershipModels)
}

// CountActiveByTenant counts ACTIVE memberships
func (r *MembershipRepositoryImpl) CountActiveByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.TenantMembershipModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, string(tenant.MembershipStatusActive)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	return count, nil
}

// CountOccupyingByTenant counts memberships holding a member slot (ACTIVE + INVITED)
func (r *MembershipRepositoryImpl) CountOccupyingByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.TenantMembershipModel{}).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]string{string(tenant.MembershipStatusActive), string(tenant.MembershipStatusInvited)}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	return count, nil
}

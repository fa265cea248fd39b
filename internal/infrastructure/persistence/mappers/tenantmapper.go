package mappers

import (
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

// TenantMapper handles the conversion between tenant aggregates and persistence models
type TenantMapper interface {
	ToEntity(model *models.TenantModel) (*tenant.Tenant, error)
	ToModel(entity *tenant.Tenant) (*models.TenantModel, error)
}

type tenantMapper struct{}

// NewTenantMapper creates a new tenant mapper
func NewTenantMapper() TenantMapper {
	return &tenantMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *tenantMapper) ToEntity(model *models.TenantModel) (*tenant.Tenant, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := tenant.ReconstructTenant(
		model.ID,
		model.SID,
		model.Name,
		model.Slug,
		model.OwnerUserID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct tenant entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *tenantMapper) ToModel(entity *tenant.Tenant) (*models.TenantModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.TenantModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		Name:        entity.Name(),
		Slug:        entity.Slug(),
		OwnerUserID: entity.OwnerUserID(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

// MembershipMapper handles the conversion between memberships and persistence models
type MembershipMapper interface {
	ToEntity(model *models.TenantMembershipModel) (*tenant.Membership, error)
	ToModel(entity *tenant.Membership) (*models.TenantMembershipModel, error)
	ToEntities(models []*models.TenantMembershipModel) ([]*tenant.Membership, error)
}

type membershipMapper struct{}

// NewMembershipMapper creates a new membership mapper
func NewMembershipMapper() MembershipMapper {
	return &membershipMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *membershipMapper) ToEntity(model *models.TenantMembershipModel) (*tenant.Membership, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := tenant.ReconstructMembership(
		model.ID,
		model.TenantID,
		model.UserID,
		tenant.MembershipRole(model.Role),
		tenant.MembershipStatus(model.Status),
		model.JoinedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct membership entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *membershipMapper) ToModel(entity *tenant.Membership) (*models.TenantMembershipModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.TenantMembershipModel{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		UserID:    entity.UserID(),
		Role:      string(entity.Role()),
		Status:    string(entity.Status()),
		JoinedAt:  entity.JoinedAt(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *membershipMapper) ToEntities(membershipModels []*models.TenantMembershipModel) ([]*tenant.Membership, error) {
	entities := make([]*tenant.Membership, 0, len(membershipModels))

	for i, model := range membershipModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}

	return entities, nil
}

package mappers

import (
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

// AppAccessMapper handles the conversion between access aggregates and persistence models
type AppAccessMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.AppAccessModel) (*access.AppAccess, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *access.AppAccess) (*models.AppAccessModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.AppAccessModel) ([]*access.AppAccess, error)
}

// appAccessMapper is the concrete implementation of AppAccessMapper
type appAccessMapper struct{}

// NewAppAccessMapper creates a new app access mapper
func NewAppAccessMapper() AppAccessMapper {
	return &appAccessMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *appAccessMapper) ToEntity(model *models.AppAccessModel) (*access.AppAccess, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := access.ReconstructAppAccess(
		model.ID,
		model.SID,
		model.TenantID,
		model.UserID,
		model.ApplicationID,
		access.AccessType(model.AccessType),
		access.AccessStatus(model.Status),
		model.GrantedAt,
		model.GrantedByID,
		model.RevokedAt,
		model.RevokedByID,
		model.AssignmentID,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct app access entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *appAccessMapper) ToModel(entity *access.AppAccess) (*models.AppAccessModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.AppAccessModel{
		ID:            entity.ID(),
		SID:           entity.SID(),
		UserID:        entity.UserID(),
		TenantID:      entity.TenantID(),
		ApplicationID: entity.ApplicationID(),
		AccessType:    string(entity.AccessType()),
		Status:        string(entity.Status()),
		GrantedAt:     entity.GrantedAt(),
		GrantedByID:   entity.GrantedByID(),
		RevokedAt:     entity.RevokedAt(),
		RevokedByID:   entity.RevokedByID(),
		AssignmentID:  entity.AssignmentID(),
		Version:       entity.Version(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}

	return model, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *appAccessMapper) ToEntities(accessModels []*models.AppAccessModel) ([]*access.AppAccess, error) {
	entities := make([]*access.AppAccess, 0, len(accessModels))

	for i, model := range accessModels {
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

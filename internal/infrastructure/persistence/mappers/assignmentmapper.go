package mappers

import (
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

// AssignmentMapper handles the conversion between assignment aggregates and persistence models
type AssignmentMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.LicenseAssignmentModel) (*licensing.LicenseAssignment, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *licensing.LicenseAssignment) (*models.LicenseAssignmentModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.LicenseAssignmentModel) ([]*licensing.LicenseAssignment, error)
}

// assignmentMapper is the concrete implementation of AssignmentMapper
type assignmentMapper struct{}

// NewAssignmentMapper creates a new assignment mapper
func NewAssignmentMapper() AssignmentMapper {
	return &assignmentMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *assignmentMapper) ToEntity(model *models.LicenseAssignmentModel) (*licensing.LicenseAssignment, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := licensing.ReconstructLicenseAssignment(
		model.ID,
		model.SID,
		model.TenantID,
		model.UserID,
		model.ApplicationID,
		model.SubscriptionID,
		model.LicenseTypeID,
		model.LicenseTypeName,
		model.AssignedAt,
		model.AssignedByID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *assignmentMapper) ToModel(entity *licensing.LicenseAssignment) (*models.LicenseAssignmentModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.LicenseAssignmentModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		TenantID:        entity.TenantID(),
		UserID:          entity.UserID(),
		ApplicationID:   entity.ApplicationID(),
		SubscriptionID:  entity.SubscriptionID(),
		LicenseTypeID:   entity.LicenseTypeID(),
		LicenseTypeName: entity.LicenseTypeName(),
		AssignedAt:      entity.AssignedAt(),
		AssignedByID:    entity.AssignedByID(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}

	return model, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *assignmentMapper) ToEntities(assignmentModels []*models.LicenseAssignmentModel) ([]*licensing.LicenseAssignment, error) {
	entities := make([]*licensing.LicenseAssignment, 0, len(assignmentModels))

	for i, model := range assignmentModels {
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

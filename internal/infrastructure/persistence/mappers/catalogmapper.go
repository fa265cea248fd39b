package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

// ApplicationMapper handles the conversion between application aggregates and persistence models
type ApplicationMapper interface {
	ToEntity(model *models.ApplicationModel) (*catalog.Application, error)
	ToModel(entity *catalog.Application) (*models.ApplicationModel, error)
	ToEntities(models []*models.ApplicationModel) ([]*catalog.Application, error)
}

type applicationMapper struct{}

// NewApplicationMapper creates a new application mapper
func NewApplicationMapper() ApplicationMapper {
	return &applicationMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *applicationMapper) ToEntity(model *models.ApplicationModel) (*catalog.Application, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := catalog.ReconstructApplication(
		model.ID,
		model.SID,
		model.Name,
		catalog.LicensingMode(model.LicensingMode),
		catalog.AccessMode(model.AccessMode),
		model.DefaultLicenseTypeID,
		model.DefaultSeatCount,
		model.AutoGrantToOwner,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct application entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *applicationMapper) ToModel(entity *catalog.Application) (*models.ApplicationModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ApplicationModel{
		ID:                   entity.ID(),
		SID:                  entity.SID(),
		Name:                 entity.Name(),
		LicensingMode:        string(entity.LicensingMode()),
		AccessMode:           string(entity.AccessMode()),
		DefaultLicenseTypeID: entity.DefaultLicenseTypeID(),
		DefaultSeatCount:     entity.DefaultSeatCount(),
		AutoGrantToOwner:     entity.AutoGrantToOwner(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *applicationMapper) ToEntities(appModels []*models.ApplicationModel) ([]*catalog.Application, error) {
	entities := make([]*catalog.Application, 0, len(appModels))

	for i, model := range appModels {
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

// LicenseTypeMapper handles the conversion between license type aggregates and persistence models
type LicenseTypeMapper interface {
	ToEntity(model *models.LicenseTypeModel) (*catalog.LicenseType, error)
	ToModel(entity *catalog.LicenseType) (*models.LicenseTypeModel, error)
	ToEntities(models []*models.LicenseTypeModel) ([]*catalog.LicenseType, error)
}

type licenseTypeMapper struct{}

// NewLicenseTypeMapper creates a new license type mapper
func NewLicenseTypeMapper() LicenseTypeMapper {
	return &licenseTypeMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *licenseTypeMapper) ToEntity(model *models.LicenseTypeModel) (*catalog.LicenseType, error) {
	if model == nil {
		return nil, nil
	}

	features := make(map[string]bool)
	if len(model.Features) > 0 {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal license type features: %w", err)
		}
	}

	entity, err := catalog.ReconstructLicenseType(
		model.ID,
		model.SID,
		model.ApplicationID,
		model.Name,
		model.Slug,
		features,
		model.MaxMembers,
		catalog.LicenseTypeStatus(model.Status),
		model.DisplayOrder,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct license type entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *licenseTypeMapper) ToModel(entity *catalog.LicenseType) (*models.LicenseTypeModel, error) {
	if entity == nil {
		return nil, nil
	}

	features, err := json.Marshal(entity.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal license type features: %w", err)
	}

	return &models.LicenseTypeModel{
		ID:            entity.ID(),
		SID:           entity.SID(),
		ApplicationID: entity.ApplicationID(),
		Name:          entity.Name(),
		Slug:          entity.Slug(),
		Features:      datatypes.JSON(features),
		MaxMembers:    entity.MaxMembers(),
		Status:        string(entity.Status()),
		DisplayOrder:  entity.DisplayOrder(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *licenseTypeMapper) ToEntities(typeModels []*models.LicenseTypeModel) ([]*catalog.LicenseType, error) {
	entities := make([]*catalog.LicenseType, 0, len(typeModels))

	for i, model := range typeModels {
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

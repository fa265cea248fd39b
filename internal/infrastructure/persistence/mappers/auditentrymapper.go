package mappers

import (
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

// AuditEntryMapper handles the conversion between audit entries and persistence models
type AuditEntryMapper interface {
	ToEntity(model *models.LicenseAuditLogModel) (*licensing.AuditEntry, error)
	ToModel(entity *licensing.AuditEntry) (*models.LicenseAuditLogModel, error)
	ToEntities(models []*models.LicenseAuditLogModel) ([]*licensing.AuditEntry, error)
}

type auditEntryMapper struct{}

// NewAuditEntryMapper creates a new audit entry mapper
func NewAuditEntryMapper() AuditEntryMapper {
	return &auditEntryMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *auditEntryMapper) ToEntity(model *models.LicenseAuditLogModel) (*licensing.AuditEntry, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := licensing.ReconstructAuditEntry(
		model.ID,
		model.SID,
		model.TenantID,
		model.UserID,
		model.ApplicationID,
		licensing.AuditAction(model.Action),
		model.LicenseTypeID,
		model.LicenseTypeName,
		model.PreviousLicenseTypeID,
		model.ActorID,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct audit entry: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *auditEntryMapper) ToModel(entity *licensing.AuditEntry) (*models.LicenseAuditLogModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.LicenseAuditLogModel{
		ID:                    entity.ID(),
		SID:                   entity.SID(),
		TenantID:              entity.TenantID(),
		UserID:                entity.UserID(),
		ApplicationID:         entity.ApplicationID(),
		Action:                string(entity.Action()),
		LicenseTypeID:         entity.LicenseTypeID(),
		LicenseTypeName:       entity.LicenseTypeName(),
		PreviousLicenseTypeID: entity.PreviousLicenseTypeID(),
		ActorID:               entity.ActorID(),
		CreatedAt:             entity.CreatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *auditEntryMapper) ToEntities(entryModels []*models.LicenseAuditLogModel) ([]*licensing.AuditEntry, error) {
	entities := make([]*licensing.AuditEntry, 0, len(entryModels))

	for i, model := range entryModels {
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

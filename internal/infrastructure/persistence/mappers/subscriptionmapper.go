// Package mappers converts between domain aggregates and persistence models.
package mappers

import (
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

// SubscriptionMapper handles the conversion between subscription aggregates and persistence models
type SubscriptionMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.AppSubscriptionModel) (*licensing.AppSubscription, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *licensing.AppSubscription) (*models.AppSubscriptionModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.AppSubscriptionModel) ([]*licensing.AppSubscription, error)
}

// subscriptionMapper is the concrete implementation of SubscriptionMapper
type subscriptionMapper struct{}

// NewSubscriptionMapper creates a new subscription mapper
func NewSubscriptionMapper() SubscriptionMapper {
	return &subscriptionMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *subscriptionMapper) ToEntity(model *models.AppSubscriptionModel) (*licensing.AppSubscription, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := licensing.ReconstructAppSubscription(
		model.ID,
		model.SID,
		model.TenantID,
		model.ApplicationID,
		model.LicenseTypeID,
		model.QuantityPurchased,
		model.QuantityAssigned,
		licensing.SubscriptionStatus(model.Status),
		model.CurrentPeriodEnd,
		model.AutoRenew,
		model.CanceledAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
// QuantityAssigned is carried for inserts only: Update paths must never
// write it, the conditional counter methods own that column.
func (m *subscriptionMapper) ToModel(entity *licensing.AppSubscription) (*models.AppSubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.AppSubscriptionModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		TenantID:          entity.TenantID(),
		ApplicationID:     entity.ApplicationID(),
		LicenseTypeID:     entity.LicenseTypeID(),
		QuantityPurchased: entity.QuantityPurchased(),
		QuantityAssigned:  entity.QuantityAssigned(),
		Status:            string(entity.Status()),
		CurrentPeriodEnd:  entity.CurrentPeriodEnd(),
		AutoRenew:         entity.AutoRenew(),
		CanceledAt:        entity.CanceledAt(),
		Version:           entity.Version(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}

	return model, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *subscriptionMapper) ToEntities(subModels []*models.AppSubscriptionModel) ([]*licensing.AppSubscription, error) {
	entities := make([]*licensing.AppSubscription, 0, len(subModels))

	for i, model := range subModels {
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

package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func TestUpdateQuantity_Grows(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 3, licensing.SubscriptionStatusActive, nil)

	sub, err := env.updateQuantityUseCase().Execute(context.Background(), UpdateQuantityCommand{
		SubscriptionSID:      "sub_pool111111",
		NewQuantityPurchased: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, sub.QuantityPurchased())
	assert.Contains(t, env.overviewCache.Invalidated(), poolTenantSID)

	stored, err := env.subscriptionRepo.GetByID(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.QuantityPurchased())
	assert.Equal(t, 3, stored.QuantityAssigned())
}

func TestUpdateQuantity_ShrinkBelowAssigned(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 3, licensing.SubscriptionStatusActive, nil)

	_, err := env.updateQuantityUseCase().Execute(context.Background(), UpdateQuantityCommand{
		SubscriptionSID:      "sub_pool111111",
		NewQuantityPurchased: 2,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
	assert.Contains(t, appErr.Details, "assigned=3")

	stored, err := env.subscriptionRepo.GetByID(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.QuantityPurchased())
}

func TestUpdateQuantity_ShrinkToAssignedIsAllowed(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 3, licensing.SubscriptionStatusActive, nil)

	sub, err := env.updateQuantityUseCase().Execute(context.Background(), UpdateQuantityCommand{
		SubscriptionSID:      "sub_pool111111",
		NewQuantityPurchased: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.QuantityPurchased())
	assert.Equal(t, 0, sub.AvailableSeats())
}

func TestUpdateQuantity_NotFound(t *testing.T) {
	env := newPoolEnv(t)

	_, err := env.updateQuantityUseCase().Execute(context.Background(), UpdateQuantityCommand{
		SubscriptionSID:      "sub_missing1111",
		NewQuantityPurchased: 5,
	})
	assert.True(t, errors.IsNotFoundError(err))
}

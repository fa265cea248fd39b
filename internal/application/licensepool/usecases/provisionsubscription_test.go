package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

const (
	poolTenantID      = uint(1)
	poolApplicationID = uint(2)
	poolLicenseTypeID = uint(3)
	poolTenantSID     = "tn_pool11111111"
)

func seedPoolScenario(t *testing.T, env *poolEnv) {
	t.Helper()
	env.seedTenant(t, poolTenantID, poolTenantSID)
	env.seedApplication(t, poolApplicationID, "app_pool111111", catalog.LicensingModePerSeat, catalog.AccessModeManualNoDefault)
	env.seedLicenseType(t, poolLicenseTypeID, poolApplicationID, "lt_pool1111111", "Pro", nil, catalog.LicenseTypeStatusActive)
}

func TestProvisionSubscription_CreatesInventory(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)

	sub, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 10,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sub.SID(), "sub_"))
	assert.Equal(t, licensing.SubscriptionStatusActive, sub.Status())
	assert.Equal(t, 10, sub.QuantityPurchased())
	assert.Equal(t, 0, sub.QuantityAssigned())

	assert.Contains(t, env.dispatcher.Types(), "tenant.app.granted")
	assert.Contains(t, env.overviewCache.Invalidated(), poolTenantSID)

	assert.Eventually(t, func() bool {
		for _, name := range env.emitter.Names() {
			if name == "tenant.app.granted" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProvisionSubscription_ReprovisionRefreshesWithoutEvents(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 2, licensing.SubscriptionStatusActive, nil)

	sub, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, subID, sub.ID())
	assert.Equal(t, 8, sub.QuantityPurchased())
	// a refresh of an existing row never announces a new grant
	assert.Empty(t, env.dispatcher.Types())
	assert.Contains(t, env.overviewCache.Invalidated(), poolTenantSID)

	stored, err := env.subscriptionRepo.GetByID(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.QuantityPurchased())
	assert.Equal(t, 2, stored.QuantityAssigned())
}

func TestProvisionSubscription_ReprovisionBelowAssigned(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 3, licensing.SubscriptionStatusActive, nil)

	_, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 2,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestProvisionSubscription_LicenseTypeOfOtherApplication(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	env.seedApplication(t, 20, "app_other11111", catalog.LicensingModePerSeat, catalog.AccessModeManualNoDefault)
	env.seedLicenseType(t, 21, 20, "lt_other111111", "Other", nil, catalog.LicenseTypeStatusActive)

	_, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     21,
		QuantityPurchased: 5,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestProvisionSubscription_InactiveTypeBlocksCreationOnly(t *testing.T) {
	env := newPoolEnv(t)
	env.seedTenant(t, poolTenantID, poolTenantSID)
	env.seedApplication(t, poolApplicationID, "app_pool111111", catalog.LicensingModePerSeat, catalog.AccessModeManualNoDefault)
	env.seedLicenseType(t, poolLicenseTypeID, poolApplicationID, "lt_pool1111111", "Pro", nil, catalog.LicenseTypeStatusDraft)

	_, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 5,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)

	// an existing row for a since-retired type may still be refreshed
	env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 0, licensing.SubscriptionStatusActive, nil)
	sub, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, sub.QuantityPurchased())
}

func TestProvisionSubscription_DisabledApplication(t *testing.T) {
	env := newPoolEnv(t)
	env.seedTenant(t, poolTenantID, poolTenantSID)
	env.seedApplication(t, poolApplicationID, "app_pool111111", catalog.LicensingModePerSeat, catalog.AccessModeDisabled)
	env.seedLicenseType(t, poolLicenseTypeID, poolApplicationID, "lt_pool1111111", "Pro", nil, catalog.LicenseTypeStatusActive)

	_, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     poolApplicationID,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 5,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestProvisionSubscription_ApplicationNotFound(t *testing.T) {
	env := newPoolEnv(t)
	env.seedTenant(t, poolTenantID, poolTenantSID)

	_, err := env.provisionUseCase().Execute(context.Background(), ProvisionSubscriptionCommand{
		TenantID:          poolTenantID,
		ApplicationID:     99,
		LicenseTypeID:     poolLicenseTypeID,
		QuantityPurchased: 5,
	})
	assert.True(t, errors.IsNotFoundError(err))
}

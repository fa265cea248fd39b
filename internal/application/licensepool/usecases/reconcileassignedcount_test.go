package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func TestReconcileAssignedCount_CorrectsDrift(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	// counter says 4, only 2 assignment rows actually exist
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 4, licensing.SubscriptionStatusActive, nil)
	env.seedAssignment(t, "la_recon1111111", poolTenantID, 10, poolApplicationID, subID, poolLicenseTypeID)
	env.seedAssignment(t, "la_recon2222222", poolTenantID, 11, poolApplicationID, subID, poolLicenseTypeID)

	count, err := env.reconcileUseCase().Execute(context.Background(), "sub_pool111111")
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, 2, env.subscriptionRepo.AssignedCount(subID))
	assert.Contains(t, env.overviewCache.Invalidated(), poolTenantSID)
}

func TestReconcileAssignedCount_NoDrift(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 1, licensing.SubscriptionStatusActive, nil)
	env.seedAssignment(t, "la_recon1111111", poolTenantID, 10, poolApplicationID, subID, poolLicenseTypeID)

	count, err := env.reconcileUseCase().Execute(context.Background(), "sub_pool111111")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, env.subscriptionRepo.AssignedCount(subID))
}

func TestReconcileAssignedCount_NotFound(t *testing.T) {
	env := newPoolEnv(t)

	_, err := env.reconcileUseCase().Execute(context.Background(), "sub_missing1111")
	assert.True(t, errors.IsNotFoundError(err))
}

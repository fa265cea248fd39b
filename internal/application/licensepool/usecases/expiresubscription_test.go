package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func (env *poolEnv) seedAccess(t *testing.T, sid string, tenantID, userID, applicationID uint) *access.AppAccess {
	t.Helper()
	a, err := access.NewAppAccess(sid, tenantID, userID, applicationID, access.AccessTypeGranted, nil, nil)
	require.NoError(t, err)
	require.NoError(t, env.accessRepo.Create(context.Background(), a))
	return a
}

func TestExpireSubscription_ReleasesSeatsAndAccess(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 2, licensing.SubscriptionStatusActive, nil)
	env.seedAssignment(t, "la_expire111111", poolTenantID, 10, poolApplicationID, subID, poolLicenseTypeID)
	env.seedAssignment(t, "la_expire222222", poolTenantID, 11, poolApplicationID, subID, poolLicenseTypeID)
	env.seedAccess(t, "acc_expire11111", poolTenantID, 10, poolApplicationID)
	env.seedAccess(t, "acc_expire22222", poolTenantID, 11, poolApplicationID)

	err := env.expireUseCase().Execute(context.Background(), "sub_pool111111")
	require.NoError(t, err)

	assert.Equal(t, 0, env.assignmentRepo.Count())
	assert.Equal(t, 0, env.subscriptionRepo.AssignedCount(subID))
	assert.Equal(t, licensing.SubscriptionStatusExpired, env.subscriptionRepo.CurrentStatus(subID))

	for _, userID := range []uint{10, 11} {
		record, err := env.accessRepo.GetByUserTenantApp(context.Background(), userID, poolTenantID, poolApplicationID)
		require.NoError(t, err)
		assert.False(t, record.IsActive())
	}

	assert.Contains(t, env.overviewCache.Invalidated(), poolTenantSID)
}

func TestExpireSubscription_AlreadyExpiredIsIdempotent(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	subID := env.seedSubscription(t, "sub_pool111111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 0, licensing.SubscriptionStatusExpired, nil)

	err := env.expireUseCase().Execute(context.Background(), "sub_pool111111")
	require.NoError(t, err)
	assert.Equal(t, licensing.SubscriptionStatusExpired, env.subscriptionRepo.CurrentStatus(subID))
}

func TestExpireSubscription_NotFound(t *testing.T) {
	env := newPoolEnv(t)

	err := env.expireUseCase().Execute(context.Background(), "sub_missing1111")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExpireSubscriptions_ScansPastDuePeriods(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	lapsedID := env.seedSubscription(t, "sub_lapsed11111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 1, licensing.SubscriptionStatusActive, &past)
	currentID := env.seedSubscription(t, "sub_current1111", poolTenantID, poolApplicationID, 30,
		5, 2, licensing.SubscriptionStatusActive, &future)
	env.seedAssignment(t, "la_lapsed111111", poolTenantID, 10, poolApplicationID, lapsedID, poolLicenseTypeID)

	expired, err := env.expireAllUseCase().Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, licensing.SubscriptionStatusExpired, env.subscriptionRepo.CurrentStatus(lapsedID))
	assert.Equal(t, 0, env.subscriptionRepo.AssignedCount(lapsedID))

	// the in-period subscription is untouched
	assert.Equal(t, licensing.SubscriptionStatusActive, env.subscriptionRepo.CurrentStatus(currentID))
	assert.Equal(t, 2, env.subscriptionRepo.AssignedCount(currentID))
}

func TestExpireSubscriptions_NothingDue(t *testing.T) {
	env := newPoolEnv(t)
	seedPoolScenario(t, env)
	future := time.Now().Add(24 * time.Hour)
	env.seedSubscription(t, "sub_current1111", poolTenantID, poolApplicationID, poolLicenseTypeID,
		5, 0, licensing.SubscriptionStatusActive, &future)

	expired, err := env.expireAllUseCase().Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

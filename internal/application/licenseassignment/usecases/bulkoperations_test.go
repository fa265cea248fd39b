package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func (env *testEnv) bulkUseCase() *BulkLicenseUseCase {
	return NewBulkLicenseUseCase(env.grantUseCase(), env.revokeUseCase(), env.log)
}

// Sequential bulk grants drain the pool deterministically: with K seats and
// more users than seats, exactly the first K users succeed.
func TestBulkGrant_PoolDrainsExactly(t *testing.T) {
	const seats = 3

	env := newTestEnv(t)
	env.seedTenant(t, grantTenantID, "tn_grant1111111")
	env.seedApplication(t, grantApplicationID, "app_grant111111", catalog.AccessModeAutomatic)
	env.seedLicenseType(t, grantLicenseTypeID, grantApplicationID, "lt_pro111111111", "Pro", nil)
	subID := env.seedSubscription(t, "sub_bulk1111111", grantTenantID, grantApplicationID, grantLicenseTypeID,
		seats, 0, licensing.SubscriptionStatusActive)

	userIDs := []uint{10, 11, 12, 13, 14}
	for _, uid := range userIDs {
		env.seedMembership(t, grantTenantID, uid, tenant.MembershipStatusActive)
	}

	result, err := env.bulkUseCase().GrantLicenses(context.Background(), GrantLicensesBulkCommand{
		TenantID:      grantTenantID,
		UserIDs:       userIDs,
		ApplicationID: grantApplicationID,
		LicenseTypeID: grantLicenseTypeID,
	})
	require.NoError(t, err)

	assert.Equal(t, seats, result.Succeeded)
	assert.Equal(t, len(userIDs)-seats, result.Failed)
	require.Len(t, result.Results, len(userIDs))

	for i, item := range result.Results {
		assert.Equal(t, userIDs[i], item.UserID)
		if i < seats {
			assert.True(t, item.Success)
			assert.Contains(t, item.AssignmentID, "la_")
		} else {
			assert.False(t, item.Success)
			assert.Equal(t, string(errors.ErrorTypeNoSeats), item.ErrorType)
		}
	}

	assert.Equal(t, seats, env.subscriptionRepo.AssignedCount(subID))
}

func TestBulkGrant_MixedFailures(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)
	env.seedMembership(t, grantTenantID, 11, tenant.MembershipStatusSuspended)

	// 10 is an active member, 11 suspended, 99 not a member
	result, err := env.bulkUseCase().GrantLicenses(context.Background(), GrantLicensesBulkCommand{
		TenantID:      grantTenantID,
		UserIDs:       []uint{10, 11, 99},
		ApplicationID: grantApplicationID,
		LicenseTypeID: grantLicenseTypeID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Results, 3)

	assert.True(t, result.Results[0].Success)
	assert.Equal(t, string(errors.ErrorTypeBadRequest), result.Results[1].ErrorType)
	assert.Equal(t, string(errors.ErrorTypeBadRequest), result.Results[2].ErrorType)
}

func TestBulkRevoke_SkipsMissingAssignments(t *testing.T) {
	env := newTestEnv(t)
	subID := seedGrantScenario(t, env)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	result, err := env.bulkUseCase().RevokeLicenses(context.Background(), RevokeLicensesBulkCommand{
		TenantID:      grantTenantID,
		UserIDs:       []uint{10, 11},
		ApplicationID: grantApplicationID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, string(errors.ErrorTypeNotFound), result.Results[1].ErrorType)
	assert.Equal(t, 0, env.subscriptionRepo.AssignedCount(subID))
}

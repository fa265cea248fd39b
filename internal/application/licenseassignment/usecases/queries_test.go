package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func (env *testEnv) queryUseCase() *LicenseQueryUseCase {
	return NewLicenseQueryUseCase(
		env.assignmentRepo, env.subscriptionRepo, env.applicationRepo,
		env.licenseTypeRepo, env.membershipRepo, env.directory, env.log)
}

func TestGetUserLicenses(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	views, err := env.queryUseCase().GetUserLicenses(context.Background(), grantTenantID, grantUserID)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Contains(t, views[0].AssignmentID, "la_")
	assert.Equal(t, "app_grant111111", views[0].ApplicationID)
	assert.Equal(t, "lt_pro111111111", views[0].LicenseTypeID)
	assert.Equal(t, "Pro", views[0].LicenseTypeName)
}

func TestGetUserLicenses_Empty(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)

	views, err := env.queryUseCase().GetUserLicenses(context.Background(), grantTenantID, grantUserID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetAppLicenseHolders(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)
	env.seedMembership(t, grantTenantID, 11, tenant.MembershipStatusActive)
	env.directory.Profiles[grantUserID] = &directory.UserProfile{
		Sub: "auth0|u10", Email: "u10@example.com", DisplayName: "User Ten",
	}

	grantUC := env.grantUseCase()
	_, err := grantUC.Execute(context.Background(), grantCmd())
	require.NoError(t, err)
	other := grantCmd()
	other.UserID = 11
	_, err = grantUC.Execute(context.Background(), other)
	require.NoError(t, err)

	holders, err := env.queryUseCase().GetAppLicenseHolders(context.Background(), grantTenantID, grantApplicationID)
	require.NoError(t, err)
	require.Len(t, holders, 2)

	byUser := make(map[uint]HolderView, len(holders))
	for _, h := range holders {
		byUser[h.UserID] = h
	}

	// profile enrichment is best effort: user 10 resolves, user 11 does not
	require.Contains(t, byUser, grantUserID)
	assert.Equal(t, "u10@example.com", byUser[grantUserID].Email)
	assert.Equal(t, "auth0|u10", byUser[grantUserID].Sub)
	require.Contains(t, byUser, uint(11))
	assert.Empty(t, byUser[uint(11)].Email)
}

func TestGetSubscriptionAssignments(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	holders, err := env.queryUseCase().GetSubscriptionAssignments(context.Background(), "sub_grant111111")
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, grantUserID, holders[0].UserID)
}

func TestGetSubscriptionAssignments_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.queryUseCase().GetSubscriptionAssignments(context.Background(), "sub_missing1111")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGetTenantMembersWithLicenses_IncludesUnlicensed(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)
	env.seedMembership(t, grantTenantID, 11, tenant.MembershipStatusActive)
	env.seedMembership(t, grantTenantID, 12, tenant.MembershipStatusSuspended)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	members, err := env.queryUseCase().GetTenantMembersWithLicenses(context.Background(), grantTenantID)
	require.NoError(t, err)

	// suspended member excluded; unlicensed active member listed with no licenses
	require.Len(t, members, 2)
	byUser := make(map[uint]MemberLicensesView, len(members))
	for _, m := range members {
		byUser[m.UserID] = m
	}
	require.Contains(t, byUser, grantUserID)
	assert.Len(t, byUser[grantUserID].Licenses, 1)
	require.Contains(t, byUser, uint(11))
	assert.Empty(t, byUser[uint(11)].Licenses)
	assert.NotContains(t, byUser, uint(12))
}

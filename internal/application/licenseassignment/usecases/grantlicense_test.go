package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

const (
	grantTenantID      = uint(1)
	grantApplicationID = uint(2)
	grantLicenseTypeID = uint(3)
	grantUserID        = uint(10)
)

// seedGrantScenario seeds one tenant with one active member, a per-seat
// application with a Pro license type, and a 5-seat active subscription.
func seedGrantScenario(t *testing.T, env *testEnv) uint {
	t.Helper()
	env.seedTenant(t, grantTenantID, "tn_grant1111111")
	env.seedApplication(t, grantApplicationID, "app_grant111111", catalog.AccessModeAutomatic)
	env.seedLicenseType(t, grantLicenseTypeID, grantApplicationID, "lt_pro111111111", "Pro", map[string]bool{"sso": true})
	env.seedMembership(t, grantTenantID, grantUserID, tenant.MembershipStatusActive)
	return env.seedSubscription(t, "sub_grant111111", grantTenantID, grantApplicationID, grantLicenseTypeID,
		5, 0, licensing.SubscriptionStatusActive)
}

func grantCmd() GrantLicenseCommand {
	return GrantLicenseCommand{
		TenantID:      grantTenantID,
		UserID:        grantUserID,
		ApplicationID: grantApplicationID,
		LicenseTypeID: grantLicenseTypeID,
	}
}

func TestGrantLicense_Success(t *testing.T) {
	env := newTestEnv(t)
	subID := seedGrantScenario(t, env)
	env.directory.Profiles[grantUserID] = &directory.UserProfile{
		Sub: "auth0|u10", Email: "u10@example.com", DisplayName: "User Ten",
	}
	uc := env.grantUseCase()

	assignment, err := uc.Execute(context.Background(), grantCmd())
	require.NoError(t, err)
	require.NotNil(t, assignment)

	assert.NotZero(t, assignment.ID())
	assert.Contains(t, assignment.SID(), "la_")
	assert.Equal(t, "Pro", assignment.LicenseTypeName())
	assert.Equal(t, subID, assignment.SubscriptionID())

	// seat consumed
	assert.Equal(t, 1, env.subscriptionRepo.AssignedCount(subID))
	assert.Equal(t, 1, env.assignmentRepo.Count())

	// access record follows the grant
	record, err := env.accessRepo.GetByUserTenantApp(context.Background(), grantUserID, grantTenantID, grantApplicationID)
	require.NoError(t, err)
	assert.True(t, record.IsActive())

	// audit trail and domain event are written synchronously
	assert.Equal(t, []licensing.AuditAction{licensing.AuditActionGranted}, env.auditRepo.Actions(grantTenantID))
	assert.Contains(t, env.dispatcher.Types(), "license.assigned")
	assert.Contains(t, env.overviewCache.Invalidated(), "tn_grant1111111")

	// webhook and courtesy email fire off the request path
	assert.Eventually(t, func() bool {
		for _, name := range env.emitter.Names() {
			if name == "license.assigned" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGrantLicense_ApplicationNotFound(t *testing.T) {
	env := newTestEnv(t)
	uc := env.grantUseCase()

	_, err := uc.Execute(context.Background(), grantCmd())
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGrantLicense_ApplicationDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, grantTenantID, "tn_grant1111111")
	env.seedApplication(t, grantApplicationID, "app_grant111111", catalog.AccessModeDisabled)
	uc := env.grantUseCase()

	_, err := uc.Execute(context.Background(), grantCmd())
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestGrantLicense_NotAMember(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)
	uc := env.grantUseCase()

	cmd := grantCmd()
	cmd.UserID = 99 // no membership
	_, err := uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestGrantLicense_SuspendedMember(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)
	env.seedMembership(t, grantTenantID, 11, tenant.MembershipStatusSuspended)
	uc := env.grantUseCase()

	cmd := grantCmd()
	cmd.UserID = 11
	_, err := uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestGrantLicense_DuplicateAssignment(t *testing.T) {
	env := newTestEnv(t)
	subID := seedGrantScenario(t, env)
	uc := env.grantUseCase()

	_, err := uc.Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), grantCmd())
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	// the failed grant must not consume a seat
	assert.Equal(t, 1, env.subscriptionRepo.AssignedCount(subID))
}

func TestGrantLicense_NoSubscriptionForType(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)
	uc := env.grantUseCase()

	cmd := grantCmd()
	cmd.LicenseTypeID = 77
	_, err := uc.Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGrantLicense_SubscriptionNotUsable(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, grantTenantID, "tn_grant1111111")
	env.seedApplication(t, grantApplicationID, "app_grant111111", catalog.AccessModeAutomatic)
	env.seedLicenseType(t, grantLicenseTypeID, grantApplicationID, "lt_pro111111111", "Pro", nil)
	env.seedMembership(t, grantTenantID, grantUserID, tenant.MembershipStatusActive)
	env.seedSubscription(t, "sub_expired1111", grantTenantID, grantApplicationID, grantLicenseTypeID,
		5, 0, licensing.SubscriptionStatusExpired)
	uc := env.grantUseCase()

	_, err := uc.Execute(context.Background(), grantCmd())
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestGrantLicense_NoSeatsAvailable(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, grantTenantID, "tn_grant1111111")
	env.seedApplication(t, grantApplicationID, "app_grant111111", catalog.AccessModeAutomatic)
	env.seedLicenseType(t, grantLicenseTypeID, grantApplicationID, "lt_pro111111111", "Pro", nil)
	env.seedMembership(t, grantTenantID, grantUserID, tenant.MembershipStatusActive)
	env.seedSubscription(t, "sub_full1111111", grantTenantID, grantApplicationID, grantLicenseTypeID,
		2, 2, licensing.SubscriptionStatusActive)
	uc := env.grantUseCase()

	_, err := uc.Execute(context.Background(), grantCmd())
	require.Error(t, err)
	assert.True(t, errors.IsNoSeatsAvailableError(err))

	seats := errors.GetSeatCounts(err)
	require.NotNil(t, seats)
	assert.Equal(t, 2, seats.Purchased)
	assert.Equal(t, 2, seats.Assigned)

	// a refused grant leaves no trace
	assert.Equal(t, 0, env.assignmentRepo.Count())
	assert.Empty(t, env.auditRepo.Actions(grantTenantID))
}

// A grant that loses the conditional increment reports no-seats rather than
// retrying. Racing more grants than seats must never oversell the pool, and
// every successful grant must account for exactly one seat.
func TestGrantLicense_ConcurrentGrantsNeverOversell(t *testing.T) {
	const seats = 3
	const contenders = 10

	env := newTestEnv(t)
	env.seedTenant(t, grantTenantID, "tn_grant1111111")
	env.seedApplication(t, grantApplicationID, "app_grant111111", catalog.AccessModeAutomatic)
	env.seedLicenseType(t, grantLicenseTypeID, grantApplicationID, "lt_pro111111111", "Pro", nil)
	subID := env.seedSubscription(t, "sub_race1111111", grantTenantID, grantApplicationID, grantLicenseTypeID,
		seats, 0, licensing.SubscriptionStatusActive)
	for i := 0; i < contenders; i++ {
		env.seedMembership(t, grantTenantID, uint(100+i), tenant.MembershipStatusActive)
	}
	uc := env.grantUseCase()

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := grantCmd()
			cmd.UserID = uint(100 + i)
			_, err := uc.Execute(context.Background(), cmd)
			results[i] = err
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, errors.IsNoSeatsAvailableError(err),
			fmt.Sprintf("contender %d failed with unexpected error: %v", i, err))
	}

	assert.LessOrEqual(t, succeeded, seats)
	assert.GreaterOrEqual(t, succeeded, 1)
	assert.Equal(t, succeeded, env.subscriptionRepo.AssignedCount(subID))
	assert.Equal(t, succeeded, env.assignmentRepo.Count())
}

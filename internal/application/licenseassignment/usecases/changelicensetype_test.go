package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

const (
	plusLicenseTypeID = uint(4)
)

// seedChangeScenario extends the grant scenario with a second license type
// ("Plus") backed by its own subscription.
func seedChangeScenario(t *testing.T, env *testEnv, plusSeats, plusAssigned int) (proSubID, plusSubID uint) {
	t.Helper()
	proSubID = seedGrantScenario(t, env)
	env.seedLicenseType(t, plusLicenseTypeID, grantApplicationID, "lt_plus11111111", "Plus", map[string]bool{"sso": true, "audit": true})
	plusSubID = env.seedSubscription(t, "sub_plus1111111", grantTenantID, grantApplicationID, plusLicenseTypeID,
		plusSeats, plusAssigned, licensing.SubscriptionStatusActive)
	return proSubID, plusSubID
}

func TestChangeLicenseType_Success(t *testing.T) {
	env := newTestEnv(t)
	proSubID, plusSubID := seedChangeScenario(t, env, 3, 0)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)
	require.Equal(t, 1, env.subscriptionRepo.AssignedCount(proSubID))

	assignment, err := env.changeUseCase().Execute(context.Background(), ChangeLicenseTypeCommand{
		TenantID:         grantTenantID,
		UserID:           grantUserID,
		ApplicationID:    grantApplicationID,
		NewLicenseTypeID: plusLicenseTypeID,
	})
	require.NoError(t, err)

	assert.Equal(t, plusLicenseTypeID, assignment.LicenseTypeID())
	assert.Equal(t, "Plus", assignment.LicenseTypeName())
	assert.Equal(t, plusSubID, assignment.SubscriptionID())

	// the seat moved: old pool released, new pool consumed
	assert.Equal(t, 0, env.subscriptionRepo.AssignedCount(proSubID))
	assert.Equal(t, 1, env.subscriptionRepo.AssignedCount(plusSubID))

	actions := env.auditRepo.Actions(grantTenantID)
	require.Len(t, actions, 2)
	assert.Equal(t, licensing.AuditActionChanged, actions[1])
	assert.Contains(t, env.dispatcher.Types(), "license.changed")
}

func TestChangeLicenseType_AssignmentNotFound(t *testing.T) {
	env := newTestEnv(t)
	seedChangeScenario(t, env, 3, 0)

	_, err := env.changeUseCase().Execute(context.Background(), ChangeLicenseTypeCommand{
		TenantID:         grantTenantID,
		UserID:           grantUserID,
		ApplicationID:    grantApplicationID,
		NewLicenseTypeID: plusLicenseTypeID,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestChangeLicenseType_SameType(t *testing.T) {
	env := newTestEnv(t)
	seedChangeScenario(t, env, 3, 0)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	_, err = env.changeUseCase().Execute(context.Background(), ChangeLicenseTypeCommand{
		TenantID:         grantTenantID,
		UserID:           grantUserID,
		ApplicationID:    grantApplicationID,
		NewLicenseTypeID: grantLicenseTypeID,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestChangeLicenseType_TargetPoolFull(t *testing.T) {
	env := newTestEnv(t)
	proSubID, plusSubID := seedChangeScenario(t, env, 2, 2)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	_, err = env.changeUseCase().Execute(context.Background(), ChangeLicenseTypeCommand{
		TenantID:         grantTenantID,
		UserID:           grantUserID,
		ApplicationID:    grantApplicationID,
		NewLicenseTypeID: plusLicenseTypeID,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNoSeatsAvailableError(err))

	seats := errors.GetSeatCounts(err)
	require.NotNil(t, seats)
	assert.Equal(t, 2, seats.Purchased)
	assert.Equal(t, 2, seats.Assigned)

	// the user keeps the old seat
	assignment, err := env.assignmentRepo.GetByTenantUserApp(context.Background(), grantTenantID, grantUserID, grantApplicationID)
	require.NoError(t, err)
	assert.Equal(t, grantLicenseTypeID, assignment.LicenseTypeID())
	assert.Equal(t, 1, env.subscriptionRepo.AssignedCount(proSubID))
	assert.Equal(t, 2, env.subscriptionRepo.AssignedCount(plusSubID))
}

func TestChangeLicenseType_NoTargetSubscription(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	_, err = env.changeUseCase().Execute(context.Background(), ChangeLicenseTypeCommand{
		TenantID:         grantTenantID,
		UserID:           grantUserID,
		ApplicationID:    grantApplicationID,
		NewLicenseTypeID: 77,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

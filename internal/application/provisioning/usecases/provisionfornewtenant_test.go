package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

const (
	provTenantID      = uint(1)
	provOwnerID       = uint(10)
	provApplicationID = uint(2)
	provLicenseTypeID = uint(3)
)

func TestProvisionForNewTenant_PerSeatWithOwnerAutoGrant(t *testing.T) {
	env := newProvEnv(t)
	env.seedTenant(t, provTenantID, "tn_newco1111111")
	env.seedApplication(t, provApplicationID, "app_seat111111", catalog.LicensingModePerSeat, 5, true)
	env.seedLicenseType(t, provLicenseTypeID, provApplicationID, "lt_seat1111111", "Pro", nil)
	env.seedMembership(t, provTenantID, provOwnerID, tenant.MembershipStatusActive)

	err := env.provisionForNewTenantUseCase().Execute(context.Background(), ProvisionForNewTenantCommand{
		TenantID:      provTenantID,
		OwnerUserID:   provOwnerID,
		ApplicationID: provApplicationID,
		LicenseTypeID: provLicenseTypeID,
	})
	require.NoError(t, err)

	sub, err := env.subscriptionRepo.GetByTenantAppType(context.Background(), provTenantID, provApplicationID, provLicenseTypeID)
	require.NoError(t, err)
	assert.Equal(t, 5, sub.QuantityPurchased())
	assert.Equal(t, 1, sub.QuantityAssigned())

	// the owner holds the first seat
	assignment, err := env.assignmentRepo.GetByTenantUserApp(context.Background(), provTenantID, provOwnerID, provApplicationID)
	require.NoError(t, err)
	assert.Equal(t, provLicenseTypeID, assignment.LicenseTypeID())

	record, err := env.accessRepo.GetByUserTenantApp(context.Background(), provOwnerID, provTenantID, provApplicationID)
	require.NoError(t, err)
	assert.True(t, record.IsActive())
}

func TestProvisionForNewTenant_PerSeatWithoutOwnerAutoGrant(t *testing.T) {
	env := newProvEnv(t)
	env.seedTenant(t, provTenantID, "tn_newco1111111")
	env.seedApplication(t, provApplicationID, "app_seat111111", catalog.LicensingModePerSeat, 3, false)
	env.seedLicenseType(t, provLicenseTypeID, provApplicationID, "lt_seat1111111", "Pro", nil)
	env.seedMembership(t, provTenantID, provOwnerID, tenant.MembershipStatusActive)

	err := env.provisionForNewTenantUseCase().Execute(context.Background(), ProvisionForNewTenantCommand{
		TenantID:      provTenantID,
		OwnerUserID:   provOwnerID,
		ApplicationID: provApplicationID,
		LicenseTypeID: provLicenseTypeID,
	})
	require.NoError(t, err)

	sub, err := env.subscriptionRepo.GetByTenantAppType(context.Background(), provTenantID, provApplicationID, provLicenseTypeID)
	require.NoError(t, err)
	assert.Equal(t, 3, sub.QuantityPurchased())
	assert.Equal(t, 0, sub.QuantityAssigned())
	assert.Equal(t, 0, env.assignmentRepo.Count())
}

func TestProvisionForNewTenant_TenantWideGrantsOwnerAccess(t *testing.T) {
	env := newProvEnv(t)
	env.seedTenant(t, provTenantID, "tn_newco1111111")
	env.seedApplication(t, provApplicationID, "app_wide111111", catalog.LicensingModeTenantWide, 5, false)
	limit := 10
	env.seedLicenseType(t, provLicenseTypeID, provApplicationID, "lt_team1111111", "Team", &limit)
	env.seedMembership(t, provTenantID, provOwnerID, tenant.MembershipStatusActive)

	err := env.provisionForNewTenantUseCase().Execute(context.Background(), ProvisionForNewTenantCommand{
		TenantID:      provTenantID,
		OwnerUserID:   provOwnerID,
		ApplicationID: provApplicationID,
		LicenseTypeID: provLicenseTypeID,
	})
	require.NoError(t, err)

	// member-limit tiers carry no seats: quantity pins to 1
	sub, err := env.subscriptionRepo.GetByTenantAppType(context.Background(), provTenantID, provApplicationID, provLicenseTypeID)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.QuantityPurchased())

	// access comes from the owner auto-grant, not a seat
	assert.Equal(t, 0, env.assignmentRepo.Count())
	record, err := env.accessRepo.GetByUserTenantApp(context.Background(), provOwnerID, provTenantID, provApplicationID)
	require.NoError(t, err)
	assert.True(t, record.IsActive())
	assert.Equal(t, access.AccessTypeAutoOwner, record.AccessType())
}

func TestProvisionForNewTenant_LicenseTypeMismatch(t *testing.T) {
	env := newProvEnv(t)
	env.seedTenant(t, provTenantID, "tn_newco1111111")
	env.seedApplication(t, provApplicationID, "app_seat111111", catalog.LicensingModePerSeat, 5, false)
	env.seedApplication(t, 20, "app_other11111", catalog.LicensingModePerSeat, 5, false)
	env.seedLicenseType(t, 21, 20, "lt_other111111", "Other", nil)

	err := env.provisionForNewTenantUseCase().Execute(context.Background(), ProvisionForNewTenantCommand{
		TenantID:      provTenantID,
		OwnerUserID:   provOwnerID,
		ApplicationID: provApplicationID,
		LicenseTypeID: 21,
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestProvisionForNewTenant_OwnerSeatFailureDoesNotFailProvisioning(t *testing.T) {
	env := newProvEnv(t)
	env.seedTenant(t, provTenantID, "tn_newco1111111")
	env.seedApplication(t, provApplicationID, "app_seat111111", catalog.LicensingModePerSeat, 5, true)
	env.seedLicenseType(t, provLicenseTypeID, provApplicationID, "lt_seat1111111", "Pro", nil)
	// owner has no membership row, so the seat grant is rejected

	err := env.provisionForNewTenantUseCase().Execute(context.Background(), ProvisionForNewTenantCommand{
		TenantID:      provTenantID,
		OwnerUserID:   provOwnerID,
		ApplicationID: provApplicationID,
		LicenseTypeID: provLicenseTypeID,
	})
	require.NoError(t, err)

	sub, err := env.subscriptionRepo.GetByTenantAppType(context.Background(), provTenantID, provApplicationID, provLicenseTypeID)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.QuantityAssigned())
	assert.Equal(t, 0, env.assignmentRepo.Count())
}

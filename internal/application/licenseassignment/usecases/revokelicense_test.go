package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func TestRevokeLicense_Success(t *testing.T) {
	env := newTestEnv(t)
	subID := seedGrantScenario(t, env)

	_, err := env.grantUseCase().Execute(context.Background(), grantCmd())
	require.NoError(t, err)
	require.Equal(t, 1, env.subscriptionRepo.AssignedCount(subID))

	actor := uint(42)
	err = env.revokeUseCase().Execute(context.Background(), RevokeLicenseCommand{
		TenantID:      grantTenantID,
		UserID:        grantUserID,
		ApplicationID: grantApplicationID,
		RevokedByID:   &actor,
	})
	require.NoError(t, err)

	// seat released, row gone
	assert.Equal(t, 0, env.subscriptionRepo.AssignedCount(subID))
	assert.Equal(t, 0, env.assignmentRepo.Count())

	// access record revoked alongside
	record, err := env.accessRepo.GetByUserTenantApp(context.Background(), grantUserID, grantTenantID, grantApplicationID)
	require.NoError(t, err)
	assert.False(t, record.IsActive())

	assert.Equal(t,
		[]licensing.AuditAction{licensing.AuditActionGranted, licensing.AuditActionRevoked},
		env.auditRepo.Actions(grantTenantID))
	assert.Contains(t, env.dispatcher.Types(), "license.revoked")

	assert.Eventually(t, func() bool {
		for _, name := range env.emitter.Names() {
			if name == "license.revoked" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRevokeLicense_NotFound(t *testing.T) {
	env := newTestEnv(t)
	seedGrantScenario(t, env)

	err := env.revokeUseCase().Execute(context.Background(), RevokeLicenseCommand{
		TenantID:      grantTenantID,
		UserID:        grantUserID,
		ApplicationID: grantApplicationID,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRevokeLicense_KeyReusableAfterRevoke(t *testing.T) {
	env := newTestEnv(t)
	subID := seedGrantScenario(t, env)
	grantUC := env.grantUseCase()
	revokeUC := env.revokeUseCase()

	first, err := grantUC.Execute(context.Background(), grantCmd())
	require.NoError(t, err)

	err = revokeUC.Execute(context.Background(), RevokeLicenseCommand{
		TenantID:      grantTenantID,
		UserID:        grantUserID,
		ApplicationID: grantApplicationID,
	})
	require.NoError(t, err)

	// hard delete frees the unique key immediately
	second, err := grantUC.Execute(context.Background(), grantCmd())
	require.NoError(t, err)
	assert.NotEqual(t, first.SID(), second.SID())
	assert.Equal(t, 1, env.subscriptionRepo.AssignedCount(subID))
}

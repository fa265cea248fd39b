package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func newActiveAccess(t *testing.T) *AppAccess {
	t.Helper()
	a, err := NewAppAccess("acc_test123", 1, 2, 3, AccessTypeGranted, uintPtr(9), uintPtr(42))
	require.NoError(t, err)
	require.NotNil(t, a)
	return a
}

func TestNewAppAccess_ValidInput(t *testing.T) {
	a := newActiveAccess(t)

	assert.Equal(t, AccessStatusActive, a.Status())
	assert.Equal(t, AccessTypeGranted, a.AccessType())
	assert.True(t, a.IsActive())
	require.NotNil(t, a.AssignmentID())
	assert.Equal(t, uint(42), *a.AssignmentID())
	assert.Nil(t, a.RevokedAt())
}

func TestNewAppAccess_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		sid        string
		tenantID   uint
		userID     uint
		appID      uint
		accessType AccessType
	}{
		{"missing SID", "", 1, 2, 3, AccessTypeGranted},
		{"zero tenant", "acc_x", 0, 2, 3, AccessTypeGranted},
		{"zero user", "acc_x", 1, 0, 3, AccessTypeGranted},
		{"zero application", "acc_x", 1, 2, 0, AccessTypeGranted},
		{"invalid access type", "acc_x", 1, 2, 3, AccessType("BOGUS")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAppAccess(tt.sid, tt.tenantID, tt.userID, tt.appID, tt.accessType, nil, nil)
			assert.Error(t, err)
			assert.Nil(t, a)
		})
	}
}

func TestRevoke(t *testing.T) {
	a := newActiveAccess(t)

	require.NoError(t, a.Revoke(uintPtr(7)))
	assert.Equal(t, AccessStatusRevoked, a.Status())
	assert.False(t, a.IsActive())
	assert.NotNil(t, a.RevokedAt())
	require.NotNil(t, a.RevokedByID())
	assert.Equal(t, uint(7), *a.RevokedByID())
	assert.Nil(t, a.AssignmentID(), "revocation clears the assignment back-reference")
}

func TestRevoke_AlreadyRevoked(t *testing.T) {
	a := newActiveAccess(t)
	require.NoError(t, a.Revoke(nil))
	firstRevokedAt := a.RevokedAt()
	version := a.Version()

	require.NoError(t, a.Revoke(uintPtr(99)), "revoking twice is a no-op")
	assert.Equal(t, firstRevokedAt, a.RevokedAt())
	assert.Equal(t, version, a.Version(), "no-op must not bump the version")
}

func TestReactivate(t *testing.T) {
	a := newActiveAccess(t)
	require.NoError(t, a.Revoke(nil))

	err := a.Reactivate(AccessTypeAutoTenant, uintPtr(5), uintPtr(77))
	require.NoError(t, err)

	assert.Equal(t, AccessStatusActive, a.Status())
	assert.Equal(t, AccessTypeAutoTenant, a.AccessType())
	assert.Nil(t, a.RevokedAt())
	assert.Nil(t, a.RevokedByID())
	require.NotNil(t, a.AssignmentID())
	assert.Equal(t, uint(77), *a.AssignmentID())
}

func TestReactivate_AlreadyActive(t *testing.T) {
	a := newActiveAccess(t)

	err := a.Reactivate(AccessTypeGranted, nil, nil)
	assert.Error(t, err)
}

func TestReactivate_FromSuspended(t *testing.T) {
	a := newActiveAccess(t)
	require.NoError(t, a.Suspend())

	require.NoError(t, a.Reactivate(AccessTypeGranted, nil, uintPtr(42)))
	assert.True(t, a.IsActive())
}

func TestUpdateAssignmentRef(t *testing.T) {
	a := newActiveAccess(t)
	version := a.Version()

	changed := a.UpdateAssignmentRef(uintPtr(42))
	assert.False(t, changed, "same reference is a no-op")
	assert.Equal(t, version, a.Version())

	changed = a.UpdateAssignmentRef(uintPtr(100))
	assert.True(t, changed)
	assert.Equal(t, uint(100), *a.AssignmentID())
	assert.Equal(t, version+1, a.Version())

	changed = a.UpdateAssignmentRef(nil)
	assert.True(t, changed)
	assert.Nil(t, a.AssignmentID())
}

func TestSuspend(t *testing.T) {
	a := newActiveAccess(t)

	require.NoError(t, a.Suspend())
	assert.Equal(t, AccessStatusSuspended, a.Status())
	assert.False(t, a.IsActive())

	require.NoError(t, a.Suspend(), "suspending twice is a no-op")
}

func TestSuspend_Revoked(t *testing.T) {
	a := newActiveAccess(t)
	require.NoError(t, a.Revoke(nil))

	assert.Error(t, a.Suspend())
}

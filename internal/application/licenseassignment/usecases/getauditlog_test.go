package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/application/apptest"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
)

func seedAuditEntries(t *testing.T, repo *apptest.FakeAuditLogRepo, tenantID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		sid, err := id.NewAuditEntryID()
		require.NoError(t, err)
		entry, err := licensing.NewAuditEntry(sid, tenantID, uint(100+i), 2,
			licensing.AuditActionGranted, 3, fmt.Sprintf("Type %d", i), nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Append(context.Background(), entry))
	}
}

func TestGetAuditLog_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	seedAuditEntries(t, env.auditRepo, 1, 5)
	uc := NewGetAuditLogUseCase(env.auditRepo, env.log)

	page, err := uc.Execute(context.Background(), 1, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Entries, 5)
	// seeded in order; listing returns the last entry first
	assert.Equal(t, uint(104), page.Entries[0].UserID)
	assert.Equal(t, uint(100), page.Entries[4].UserID)
}

func TestGetAuditLog_Pagination(t *testing.T) {
	env := newTestEnv(t)
	seedAuditEntries(t, env.auditRepo, 1, 5)
	uc := NewGetAuditLogUseCase(env.auditRepo, env.log)

	page, err := uc.Execute(context.Background(), 1, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 2, page.Offset)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, uint(102), page.Entries[0].UserID)
}

func TestGetAuditLog_LimitClamped(t *testing.T) {
	env := newTestEnv(t)
	seedAuditEntries(t, env.auditRepo, 1, 3)
	uc := NewGetAuditLogUseCase(env.auditRepo, env.log)

	for _, limit := range []int{0, -1, 101} {
		page, err := uc.Execute(context.Background(), 1, limit, 0)
		require.NoError(t, err)
		assert.Equal(t, 50, page.Limit)
	}

	// negative offset resets to zero
	page, err := uc.Execute(context.Background(), 1, 10, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Offset)
	assert.Len(t, page.Entries, 3)
}

func TestGetAuditLog_TenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	seedAuditEntries(t, env.auditRepo, 1, 3)
	seedAuditEntries(t, env.auditRepo, 2, 2)
	uc := NewGetAuditLogUseCase(env.auditRepo, env.log)

	page, err := uc.Execute(context.Background(), 2, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Entries, 2)
}

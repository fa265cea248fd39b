package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
)

func createTestAuditEntry(t *testing.T, sid string, tenantID, userID uint, action licensing.AuditAction) *licensing.AuditEntry {
	entry, err := licensing.NewAuditEntry(sid, tenantID, userID, 2, action, 3, "Pro", nil, nil)
	require.NoError(t, err)
	return entry
}

func TestAuditLogRepository_Append(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuditLogRepository(gdb, testLogger())
	ctx := context.Background()

	t.Run("append assigns an id", func(t *testing.T) {
		entry := createTestAuditEntry(t, "al_append111111", 1, 10, licensing.AuditActionGranted)

		err := repo.Append(ctx, entry)
		assert.NoError(t, err)
		assert.NotZero(t, entry.ID())
	})

	t.Run("append preserves the change details", func(t *testing.T) {
		previousID := uint(7)
		actorID := uint(99)
		entry, err := licensing.NewAuditEntry("al_append222222", 1, 11, 2,
			licensing.AuditActionChanged, 3, "Pro", &previousID, &actorID)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, entry))

		entries, err := repo.ListByTenant(ctx, 1, 10, 0)
		require.NoError(t, err)

		var found *licensing.AuditEntry
		for _, e := range entries {
			if e.SID() == "al_append222222" {
				found = e
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, licensing.AuditActionChanged, found.Action())
		require.NotNil(t, found.PreviousLicenseTypeID())
		assert.Equal(t, uint(7), *found.PreviousLicenseTypeID())
		require.NotNil(t, found.ActorID())
		assert.Equal(t, uint(99), *found.ActorID())
	})
}

func TestAuditLogRepository_ListByTenant(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuditLogRepository(gdb, testLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sid := fmt.Sprintf("al_list%d1111111", i+1)
		require.NoError(t, repo.Append(ctx, createTestAuditEntry(t, sid, 1, 10, licensing.AuditActionGranted)))
	}
	require.NoError(t, repo.Append(ctx, createTestAuditEntry(t, "al_list61111111", 2, 10, licensing.AuditActionRevoked)))

	t.Run("list is scoped to the tenant", func(t *testing.T) {
		entries, err := repo.ListByTenant(ctx, 1, 10, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})

	t.Run("limit and offset paginate", func(t *testing.T) {
		page, err := repo.ListByTenant(ctx, 1, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := repo.ListByTenant(ctx, 1, 10, 4)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("count by tenant", func(t *testing.T) {
		count, err := repo.CountByTenant(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)

		count, err = repo.CountByTenant(ctx, 3)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func createTestAccess(t *testing.T, sid string, tenantID, userID, applicationID uint) *access.AppAccess {
	record, err := access.NewAppAccess(sid, tenantID, userID, applicationID,
		access.AccessTypeGranted, nil, nil)
	require.NoError(t, err)
	return record
}

func TestAppAccessRepository_Create(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAppAccessRepository(gdb, testLogger())
	ctx := context.Background()

	t.Run("create new access record successfully", func(t *testing.T) {
		record := createTestAccess(t, "acc_create11111", 1, 10, 2)

		err := repo.Create(ctx, record)
		assert.NoError(t, err)
		assert.NotZero(t, record.ID())

		found, err := repo.GetByUserTenantApp(ctx, 10, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, record.ID(), found.ID())
		assert.True(t, found.IsActive())
	})

	t.Run("duplicate user tenant app triple should fail", func(t *testing.T) {
		duplicate := createTestAccess(t, "acc_create22222", 1, 10, 2)

		err := repo.Create(ctx, duplicate)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})
}

func TestAppAccessRepository_Update(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAppAccessRepository(gdb, testLogger())
	ctx := context.Background()

	record := createTestAccess(t, "acc_upd11111111", 1, 10, 2)
	require.NoError(t, repo.Create(ctx, record))

	t.Run("revoke then reactivate round-trips", func(t *testing.T) {
		actorID := uint(99)
		require.NoError(t, record.Revoke(&actorID))
		require.NoError(t, repo.Update(ctx, record))

		found, err := repo.GetByID(ctx, record.ID())
		require.NoError(t, err)
		assert.False(t, found.IsActive())
		assert.NotNil(t, found.RevokedAt())

		require.NoError(t, found.Reactivate(access.AccessTypeAutoOwner, nil, nil))
		require.NoError(t, repo.Update(ctx, found))

		again, err := repo.GetByID(ctx, record.ID())
		require.NoError(t, err)
		assert.True(t, again.IsActive())
		assert.Equal(t, access.AccessTypeAutoOwner, again.AccessType())
		assert.Nil(t, again.RevokedAt())
	})

	t.Run("update non-existent record", func(t *testing.T) {
		missing := createTestAccess(t, "acc_upd22222222", 9, 9, 9)
		err := repo.Update(ctx, missing)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestAppAccessRepository_List(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAppAccessRepository(gdb, testLogger())
	ctx := context.Background()

	first := createTestAccess(t, "acc_lst11111111", 1, 10, 2)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, createTestAccess(t, "acc_lst22222222", 1, 10, 3)))
	require.NoError(t, repo.Create(ctx, createTestAccess(t, "acc_lst33333333", 1, 11, 2)))

	t.Run("list by user and tenant", func(t *testing.T) {
		records, err := repo.ListByUserAndTenant(ctx, 10, 1)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("list active by tenant and app excludes revoked", func(t *testing.T) {
		require.NoError(t, first.Revoke(nil))
		require.NoError(t, repo.Update(ctx, first))

		records, err := repo.ListActiveByTenantAndApp(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, uint(11), records[0].UserID())
	})
}

func TestAppAccessRepository_CreateSkipExisting(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAppAccessRepository(gdb, testLogger())
	ctx := context.Background()

	existing := createTestAccess(t, "acc_blk11111111", 1, 10, 2)
	require.NoError(t, repo.Create(ctx, existing))

	t.Run("skips rows whose key already exists", func(t *testing.T) {
		batch := []*access.AppAccess{
			createTestAccess(t, "acc_blk22222222", 1, 10, 2),
			createTestAccess(t, "acc_blk33333333", 1, 11, 2),
			createTestAccess(t, "acc_blk44444444", 1, 12, 2),
		}

		inserted, err := repo.CreateSkipExisting(ctx, batch)
		require.NoError(t, err)
		require.Len(t, inserted, 2)
		for _, rec := range inserted {
			assert.NotZero(t, rec.ID())
			assert.NotEqual(t, uint(10), rec.UserID())
		}

		records, err := repo.ListActiveByTenantAndApp(ctx, 1, 2)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		inserted, err := repo.CreateSkipExisting(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, inserted)
	})
}

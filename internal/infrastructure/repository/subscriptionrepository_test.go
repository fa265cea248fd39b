package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
)

func createTestSubscription(t *testing.T, sid string, tenantID, applicationID, licenseTypeID uint, purchased int) *licensing.AppSubscription {
	sub, err := licensing.NewAppSubscription(
		sid, tenantID, applicationID, licenseTypeID, purchased,
		licensing.SubscriptionStatusActive, nil, true)
	require.NoError(t, err)
	return sub
}

func TestSubscriptionRepository_Create(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	t.Run("create new subscription successfully", func(t *testing.T) {
		sub := createTestSubscription(t, "sub_create11111", 1, 1, 1, 10)

		err := repo.Create(ctx, sub)
		assert.NoError(t, err)
		assert.NotZero(t, sub.ID())

		found, err := repo.GetBySID(ctx, "sub_create11111")
		require.NoError(t, err)
		assert.Equal(t, sub.ID(), found.ID())
		assert.Equal(t, 10, found.QuantityPurchased())
		assert.Equal(t, 0, found.QuantityAssigned())
		assert.Equal(t, licensing.SubscriptionStatusActive, found.Status())
	})

	t.Run("duplicate tenant app type triple should fail", func(t *testing.T) {
		first := createTestSubscription(t, "sub_dup11111111", 2, 5, 7, 3)
		require.NoError(t, repo.Create(ctx, first))

		second := createTestSubscription(t, "sub_dup22222222", 2, 5, 7, 3)
		err := repo.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("same triple under a different tenant is allowed", func(t *testing.T) {
		other := createTestSubscription(t, "sub_dup33333333", 3, 5, 7, 3)
		assert.NoError(t, repo.Create(ctx, other))
	})
}

func TestSubscriptionRepository_Get(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_get11111111", 1, 2, 3, 5)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, "sub_get11111111", found.SID())
	})

	t.Run("get by tenant app type", func(t *testing.T) {
		found, err := repo.GetByTenantAppType(ctx, 1, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, sub.ID(), found.ID())
	})

	t.Run("get non-existent subscription", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))

		_, err = repo.GetBySID(ctx, "sub_nope1111111")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestSubscriptionRepository_IncrementAssigned(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_cas11111111", 1, 1, 1, 2)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("increment with current observed value succeeds", func(t *testing.T) {
		ok, err := repo.IncrementAssigned(ctx, sub.ID(), 0)
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, found.QuantityAssigned())
		assert.Equal(t, 2, found.Version())
	})

	t.Run("stale observed value matches no rows", func(t *testing.T) {
		ok, err := repo.IncrementAssigned(ctx, sub.ID(), 0)
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, found.QuantityAssigned())
	})

	t.Run("increment up to capacity", func(t *testing.T) {
		ok, err := repo.IncrementAssigned(ctx, sub.ID(), 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("exhausted capacity matches no rows", func(t *testing.T) {
		ok, err := repo.IncrementAssigned(ctx, sub.ID(), 2)
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, found.QuantityAssigned())
		assert.Equal(t, 2, found.QuantityPurchased())
	})

	t.Run("unknown subscription matches no rows", func(t *testing.T) {
		ok, err := repo.IncrementAssigned(ctx, 99999, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSubscriptionRepository_DecrementAssigned(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_dec11111111", 1, 1, 1, 3)
	require.NoError(t, repo.Create(ctx, sub))

	ok, err := repo.IncrementAssigned(ctx, sub.ID(), 0)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("decrement releases one seat", func(t *testing.T) {
		err := repo.DecrementAssigned(ctx, sub.ID())
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, found.QuantityAssigned())
	})

	t.Run("decrement at zero is a silent no-op", func(t *testing.T) {
		err := repo.DecrementAssigned(ctx, sub.ID())
		assert.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, found.QuantityAssigned())
	})
}

func TestSubscriptionRepository_SetAssignedCount(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_set11111111", 1, 1, 1, 10)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("overwrite counter", func(t *testing.T) {
		err := repo.SetAssignedCount(ctx, sub.ID(), 7)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 7, found.QuantityAssigned())
	})

	t.Run("unknown subscription returns not found", func(t *testing.T) {
		err := repo.SetAssignedCount(ctx, 99999, 0)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestSubscriptionRepository_Update(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_upd11111111", 1, 1, 1, 5)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("update never touches the assigned counter", func(t *testing.T) {
		ok, err := repo.IncrementAssigned(ctx, sub.ID(), 0)
		require.NoError(t, err)
		require.True(t, ok)

		// Entity still carries the stale assigned count of 0; Update must
		// not write it back over the incremented column.
		require.NoError(t, sub.UpdateQuantity(12))
		err = repo.Update(ctx, sub)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, 12, found.QuantityPurchased())
		assert.Equal(t, 1, found.QuantityAssigned())
	})

	t.Run("update persists lifecycle fields", func(t *testing.T) {
		require.NoError(t, sub.Cancel())
		err := repo.Update(ctx, sub)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, licensing.SubscriptionStatusCanceled, found.Status())
		assert.False(t, found.AutoRenew())
		assert.NotNil(t, found.CanceledAt())
	})

	t.Run("update non-existent subscription", func(t *testing.T) {
		missing := createTestSubscription(t, "sub_upd22222222", 9, 9, 9, 1)
		err := repo.Update(ctx, missing)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestSubscriptionRepository_List(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	active := createTestSubscription(t, "sub_lst11111111", 1, 1, 1, 5)
	require.NoError(t, repo.Create(ctx, active))

	lapsed, err := licensing.NewAppSubscription(
		"sub_lst22222222", 1, 1, 2, 3,
		licensing.SubscriptionStatusActive, &past, true)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, lapsed))

	current, err := licensing.NewAppSubscription(
		"sub_lst33333333", 1, 2, 3, 3,
		licensing.SubscriptionStatusTrialing, &future, true)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, current))

	expired, err := licensing.NewAppSubscription(
		"sub_lst44444444", 1, 2, 4, 3,
		licensing.SubscriptionStatusExpired, nil, false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, expired))

	t.Run("list usable by tenant excludes expired", func(t *testing.T) {
		subs, err := repo.ListUsableByTenant(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, subs, 3)
	})

	t.Run("list usable by tenant and app filters on both", func(t *testing.T) {
		subs, err := repo.ListUsableByTenantAndApp(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "sub_lst33333333", subs[0].SID())
	})

	t.Run("list past due period only returns lapsed usable rows", func(t *testing.T) {
		subs, err := repo.ListPastDuePeriod(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "sub_lst22222222", subs[0].SID())
	})
}

func TestSubscriptionRepository_Delete(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_del11111111", 1, 1, 1, 5)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("delete hides the subscription", func(t *testing.T) {
		err := repo.Delete(ctx, sub.ID())
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, sub.ID())
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("delete keeps the row for audit", func(t *testing.T) {
		var count int64
		err := gdb.Unscoped().Model(&models.AppSubscriptionModel{}).
			Where("id = ?", sub.ID()).Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete non-existent subscription", func(t *testing.T) {
		err := repo.Delete(ctx, 99999)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestSubscriptionRepository_TransactionRollback(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewSubscriptionRepository(gdb, testLogger())
	txManager := db.NewTransactionManager(gdb)
	ctx := context.Background()

	err := txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub := createTestSubscription(t, "sub_tx111111111", 1, 1, 1, 5)
		if err := repo.Create(txCtx, sub); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = repo.GetBySID(ctx, "sub_tx111111111")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSubscriptionRepository_ConcurrentIncrements(t *testing.T) {
	gdb := setupTestDB(t)
	// sqlite permits a single writer at a time.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewSubscriptionRepository(gdb, testLogger())
	ctx := context.Background()

	sub := createTestSubscription(t, "sub_race1111111", 1, 1, 1, 3)
	require.NoError(t, repo.Create(ctx, sub))

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			current, err := repo.GetByID(ctx, sub.ID())
			if err != nil {
				return
			}
			_, _ = repo.IncrementAssigned(ctx, sub.ID(), current.QuantityAssigned())
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	found, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.LessOrEqual(t, found.QuantityAssigned(), 3)
	assert.GreaterOrEqual(t, found.QuantityAssigned(), 1)
}

package repository

import (
	"context"
	"testing"

	"sweeps/models"
	"sweeps/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceRepository_GetByUserID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no record found", func(t *testing.T) {
		balance, err := repo.GetByUserID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, balance)
	})

	t.Run("record found", func(t *testing.T) {
		userID := uuid.New()
		created, err := repo.Create(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, created)

		balance, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, balance)

		assert.Equal(t, userID, balance.UserID)
		assert.True(t, balance.Spendable.IsZero())
		assert.True(t, balance.GrowthCash.IsZero())
		assert.Equal(t, int64(0), balance.Version)
		assert.False(t, balance.OpenedAt.IsZero())
	})
}

func TestBalanceRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful update bumps version", func(t *testing.T) {
		userID := uuid.New()
		balance, err := repo.Create(ctx, userID)
		require.NoError(t, err)

		balance.GrowthCash = decimal.NewFromInt(500)
		balance.Portfolio = decimal.RequireFromString("90.00")

		err = repo.Update(ctx, balance)
		require.NoError(t, err)
		assert.Equal(t, int64(1), balance.Version)

		reloaded, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.True(t, reloaded.GrowthCash.Equal(decimal.NewFromInt(500)))
		assert.True(t, reloaded.Portfolio.Equal(decimal.RequireFromString("90.00")))
		assert.Equal(t, int64(1), reloaded.Version)
	})

	t.Run("stale version returns write conflict", func(t *testing.T) {
		userID := uuid.New()
		_, err := repo.Create(ctx, userID)
		require.NoError(t, err)

		// Two readers load the same version
		first, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		second, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)

		first.Spendable = decimal.NewFromInt(100)
		require.NoError(t, repo.Update(ctx, first))

		second.Spendable = decimal.NewFromInt(200)
		err = repo.Update(ctx, second)
		assert.ErrorIs(t, err, models.ErrWriteConflict)

		// The first write is the one that stuck
		reloaded, err := repo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, reloaded.Spendable.Equal(decimal.NewFromInt(100)))
	})

	t.Run("missing record returns not found", func(t *testing.T) {
		missing := &models.BalanceRecord{UserID: uuid.New()}
		err := repo.Update(ctx, missing)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestBalanceRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.Create(ctx, userID)
	require.NoError(t, err)

	err = repo.Delete(ctx, userID)
	require.NoError(t, err)

	balance, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, balance)
}

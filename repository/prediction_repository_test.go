package repository

import (
	"context"
	"testing"
	"time"

	"sweeps/models"
	"sweeps/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionRepository_Settle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPredictionRepository(testDB.DB)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("pending prediction settles once", func(t *testing.T) {
		prediction := testutil.CreateTestPrediction(userID, models.BetTypeGrowthCash)
		require.NoError(t, repo.Create(ctx, prediction))
		assert.NotZero(t, prediction.ID)

		settledAt := time.Now().UTC()
		prediction.Result = models.PredictionResultWin
		prediction.Winnings = decimal.RequireFromString("72.50")
		prediction.SettledAt = &settledAt

		require.NoError(t, repo.Settle(ctx, prediction))

		reloaded, err := repo.GetByID(ctx, prediction.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, models.PredictionResultWin, reloaded.Result)
		assert.True(t, reloaded.Winnings.Equal(decimal.RequireFromString("72.50")))
		require.NotNil(t, reloaded.SettledAt)

		// Second settlement attempt hits the pending guard
		prediction.Result = models.PredictionResultLoss
		err = repo.Settle(ctx, prediction)
		assert.Error(t, err)
	})
}

func TestPredictionRepository_GetLatestWinTime(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPredictionRepository(testDB.DB)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("no wins returns nil", func(t *testing.T) {
		latest, err := repo.GetLatestWinTime(ctx, userID, models.BetTypeGrowthCash)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("returns most recent win of the requested type", func(t *testing.T) {
		older := time.Now().UTC().Add(-48 * time.Hour)
		newer := time.Now().UTC().Add(-1 * time.Hour)

		for _, settledAt := range []time.Time{older, newer} {
			at := settledAt
			prediction := testutil.CreateTestPrediction(userID, models.BetTypeGrowthCash)
			require.NoError(t, repo.Create(ctx, prediction))
			prediction.Result = models.PredictionResultWin
			prediction.Winnings = decimal.NewFromInt(10)
			prediction.SettledAt = &at
			require.NoError(t, repo.Settle(ctx, prediction))
		}

		// A loss of the same type does not count
		loss := testutil.CreateTestPrediction(userID, models.BetTypeGrowthCash)
		require.NoError(t, repo.Create(ctx, loss))
		lossAt := time.Now().UTC()
		loss.Result = models.PredictionResultLoss
		loss.SettledAt = &lossAt
		require.NoError(t, repo.Settle(ctx, loss))

		latest, err := repo.GetLatestWinTime(ctx, userID, models.BetTypeGrowthCash)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.WithinDuration(t, newer, *latest, time.Second)
	})
}

func TestPredictionRepository_DeleteByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPredictionRepository(testDB.DB)
	ctx := context.Background()
	userID := uuid.New()

	prediction := testutil.CreateTestPrediction(userID, models.BetTypeFunTokens)
	require.NoError(t, repo.Create(ctx, prediction))

	require.NoError(t, repo.DeleteByUser(ctx, userID))

	remaining, err := repo.GetByUser(ctx, userID, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

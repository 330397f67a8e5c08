package testutil

import (
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestPrediction creates a pending prediction with default values
func CreateTestPrediction(userID uuid.UUID, betType models.BetType) *models.Prediction {
	return &models.Prediction{
		UserID:      userID,
		Stake:       decimal.NewFromInt(50),
		BetType:     betType,
		Selections:  []string{"home_team_wins"},
		Odds:        "+145",
		Result:      models.PredictionResultPending,
		Winnings:    decimal.Zero,
		PlatformFee: decimal.Zero,
	}
}

// CreateTestWithdrawal creates a pending withdrawal request with default values
func CreateTestWithdrawal(userID uuid.UUID, kind models.BalanceKind, amount decimal.Decimal) *models.WithdrawalRequest {
	fee := amount.Mul(decimal.RequireFromString("0.05")).Round(2)
	return &models.WithdrawalRequest{
		UserID:      userID,
		BalanceKind: kind,
		Amount:      amount,
		FeeRate:     decimal.RequireFromString("0.05"),
		FeeAmount:   fee,
		NetAmount:   amount.Sub(fee),
		Status:      models.WithdrawalStatusPending,
	}
}

// CreateTestDeposit creates a deposit with the given amount
func CreateTestDeposit(userID uuid.UUID, amount decimal.Decimal) *models.Deposit {
	return &models.Deposit{
		UserID: userID,
		Amount: amount,
	}
}

// CreateTestLedgerEntry creates a ledger entry with default amounts
func CreateTestLedgerEntry(userID uuid.UUID, entryType models.EntryType) *models.LedgerEntry {
	return &models.LedgerEntry{
		UserID:        userID,
		BalanceKind:   models.BalanceKindGrowthCash,
		BalanceBefore: decimal.NewFromInt(100),
		BalanceAfter:  decimal.NewFromInt(90),
		ChangeAmount:  decimal.NewFromInt(-10),
		EntryType:     entryType,
		Metadata:      map[string]any{"test": true},
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetType identifies which balance a prediction is staked from
type BetType string

const (
	BetTypeFunTokens  BetType = "fun_tokens"
	BetTypeGrowthCash BetType = "growth_cash"
	BetTypeBonusBet   BetType = "bonus_bet"
)

// PredictionResult is the settlement outcome of a prediction
type PredictionResult string

const (
	PredictionResultPending PredictionResult = "pending"
	PredictionResultWin     PredictionResult = "win"
	PredictionResultLoss    PredictionResult = "loss"
)

// Prediction is one placed bet. It is created pending and transitions
// exactly once to win or loss at settlement, never mutated afterwards.
type Prediction struct {
	ID          int64            `db:"id"`
	UserID      uuid.UUID        `db:"user_id"`
	Stake       decimal.Decimal  `db:"stake"`
	BetType     BetType          `db:"bet_type"`
	Selections  []string         `db:"selections"`
	Odds        string           `db:"odds"`
	Result      PredictionResult `db:"result"`
	Winnings    decimal.Decimal  `db:"winnings"`
	PlatformFee decimal.Decimal  `db:"platform_fee"`
	SettledAt   *time.Time       `db:"settled_at"`
	CreatedAt   time.Time        `db:"created_at"`
}

// SettlementResult is returned to the caller after a prediction settles
type SettlementResult struct {
	Prediction       *Prediction
	PlatformFee      decimal.Decimal
	PortfolioCredit  decimal.Decimal
	GrowthCashCredit decimal.Decimal
	SpendableCredit  decimal.Decimal
	NewBalance       *BalanceRecord
}

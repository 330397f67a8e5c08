package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeletionStatus tracks account closure. The record progresses forward
// only: pending -> processing -> (pending_withdrawal | completed).
type DeletionStatus string

const (
	DeletionStatusPending           DeletionStatus = "pending"
	DeletionStatusProcessing        DeletionStatus = "processing"
	DeletionStatusPendingWithdrawal DeletionStatus = "pending_withdrawal"
	DeletionStatusCompleted         DeletionStatus = "completed"
)

// AccountDeletion snapshots a user's balances and computed fees at
// closure time
type AccountDeletion struct {
	ID                 int64           `db:"id"`
	UserID             uuid.UUID       `db:"user_id"`
	Reason             string          `db:"reason"`
	SpendableSnapshot  decimal.Decimal `db:"spendable_snapshot"`
	PortfolioSnapshot  decimal.Decimal `db:"portfolio_snapshot"`
	GrowthCashSnapshot decimal.Decimal `db:"growth_cash_snapshot"`
	TotalFees          decimal.Decimal `db:"total_fees"`
	TotalWithdrawable  decimal.Decimal `db:"total_withdrawable"`
	TransferID         *string         `db:"transfer_id"`
	Status             DeletionStatus  `db:"status"`
	CompletedAt        *time.Time      `db:"completed_at"`
	CreatedAt          time.Time       `db:"created_at"`
}

// ClosureResult is returned to the deletion endpoint caller
type ClosureResult struct {
	Status           DeletionStatus
	WithdrawalAmount decimal.Decimal
	FeesApplied      decimal.Decimal
}

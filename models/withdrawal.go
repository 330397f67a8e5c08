package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus tracks a withdrawal request through its lifecycle.
// Terminal states are append-only; a request never moves backwards.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

// WithdrawalRequest reserves part of a user's balance for payout
type WithdrawalRequest struct {
	ID          int64            `db:"id"`
	UserID      uuid.UUID        `db:"user_id"`
	BalanceKind BalanceKind      `db:"balance_kind"`
	Amount      decimal.Decimal  `db:"amount"`
	FeeRate     decimal.Decimal  `db:"fee_rate"`
	FeeAmount   decimal.Decimal  `db:"fee_amount"`
	NetAmount   decimal.Decimal  `db:"net_amount"`
	Status      WithdrawalStatus `db:"status"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType categorizes a ledger entry
type EntryType string

const (
	EntryTypeDeposit          EntryType = "deposit"
	EntryTypeStake            EntryType = "stake"
	EntryTypePredictionWin    EntryType = "prediction_win"
	EntryTypePredictionLoss   EntryType = "prediction_loss"
	EntryTypeBonusGrant       EntryType = "bonus_grant"
	EntryTypeWithdrawal       EntryType = "withdrawal"
	EntryTypeWithdrawalReturn EntryType = "withdrawal_return"
	EntryTypeClosure          EntryType = "closure"
)

// RelatedType identifies what entity a ledger entry's related_id refers to
type RelatedType string

const (
	RelatedTypePrediction RelatedType = "prediction"
	RelatedTypeWithdrawal RelatedType = "withdrawal"
	RelatedTypeDeposit    RelatedType = "deposit"
	RelatedTypeDeletion   RelatedType = "deletion"
)

// LedgerEntry is the immutable audit record of one balance change
type LedgerEntry struct {
	ID            int64           `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	BalanceKind   BalanceKind     `db:"balance_kind"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	ChangeAmount  decimal.Decimal `db:"change_amount"`
	EntryType     EntryType       `db:"entry_type"`
	Metadata      map[string]any  `db:"metadata"`
	RelatedID     *int64          `db:"related_id"`
	RelatedType   *RelatedType    `db:"related_type"`
	CreatedAt     time.Time       `db:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceKind identifies one of the balances held in a BalanceRecord
type BalanceKind string

const (
	BalanceKindSpendable         BalanceKind = "spendable"
	BalanceKindPortfolio         BalanceKind = "portfolio"
	BalanceKindGrowthCash        BalanceKind = "growth_cash"
	BalanceKindPendingWithdrawal BalanceKind = "pending_withdrawal"
	BalanceKindBonusBets         BalanceKind = "bonus_bets"
)

// BalanceRecord is the single ledger row kept per user. All amounts are
// non-negative at rest; every mutation goes through a version-checked write
// so concurrent settlements cannot interleave.
type BalanceRecord struct {
	UserID            uuid.UUID       `db:"user_id"`
	Spendable         decimal.Decimal `db:"spendable"`
	Portfolio         decimal.Decimal `db:"portfolio"`
	GrowthCash        decimal.Decimal `db:"growth_cash"`
	PendingWithdrawal decimal.Decimal `db:"pending_withdrawal"`
	BonusBets         decimal.Decimal `db:"bonus_bets"`
	Version           int64           `db:"version"`
	OpenedAt          time.Time       `db:"opened_at"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// AccountAgeDays returns whole days elapsed since the account was opened
func (b *BalanceRecord) AccountAgeDays(now time.Time) int {
	return int(now.Sub(b.OpenedAt).Hours() / 24)
}

// SetAmount replaces the balance for the given kind
func (b *BalanceRecord) SetAmount(kind BalanceKind, amount decimal.Decimal) {
	switch kind {
	case BalanceKindSpendable:
		b.Spendable = amount
	case BalanceKindPortfolio:
		b.Portfolio = amount
	case BalanceKindGrowthCash:
		b.GrowthCash = amount
	case BalanceKindPendingWithdrawal:
		b.PendingWithdrawal = amount
	case BalanceKindBonusBets:
		b.BonusBets = amount
	}
}

// Amount returns the balance for the given kind
func (b *BalanceRecord) Amount(kind BalanceKind) decimal.Decimal {
	switch kind {
	case BalanceKindSpendable:
		return b.Spendable
	case BalanceKindPortfolio:
		return b.Portfolio
	case BalanceKindGrowthCash:
		return b.GrowthCash
	case BalanceKindPendingWithdrawal:
		return b.PendingWithdrawal
	case BalanceKindBonusBets:
		return b.BonusBets
	}
	return decimal.Zero
}

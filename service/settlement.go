package service

import (
	"sweeps/models"

	"github.com/shopspring/decimal"
)

var platformFeeRate = decimal.RequireFromString("0.10")

// SettlementAllocation is the set of balance deltas produced by settling
// one prediction. The stake was already deducted at placement, so a
// settlement only ever credits.
type SettlementAllocation struct {
	UpdatedBalance   models.BalanceRecord
	PlatformFee      decimal.Decimal
	SpendableCredit  decimal.Decimal
	PortfolioCredit  decimal.Decimal
	GrowthCashCredit decimal.Decimal
}

// AllocateSettlement converts a resolved prediction into balance deltas.
//
// fun_tokens: winnings credited to spendable with no fee; a loss consumed
// the stake at placement and credits nothing.
// growth_cash win: 10% platform fee on winnings, remainder to growth cash.
// growth_cash loss: 10% of the stake is the platform fee, the remaining
// 90% moves into the simulated portfolio.
// bonus_bet win: full winnings to growth cash, zero fee.
//
// Pure: the input balance is copied, never mutated.
func AllocateSettlement(balance models.BalanceRecord, betType models.BetType, stake, winnings decimal.Decimal, result models.PredictionResult) (SettlementAllocation, error) {
	if result != models.PredictionResultWin && result != models.PredictionResultLoss {
		return SettlementAllocation{}, models.NewValidationError("cannot allocate settlement for result %q", result)
	}
	if stake.LessThanOrEqual(decimal.Zero) {
		return SettlementAllocation{}, models.NewValidationError("stake must be positive, got %s", stake)
	}

	alloc := SettlementAllocation{
		UpdatedBalance:   balance,
		PlatformFee:      decimal.Zero,
		SpendableCredit:  decimal.Zero,
		PortfolioCredit:  decimal.Zero,
		GrowthCashCredit: decimal.Zero,
	}

	switch betType {
	case models.BetTypeFunTokens:
		if result == models.PredictionResultWin {
			alloc.SpendableCredit = winnings
			alloc.UpdatedBalance.Spendable = balance.Spendable.Add(winnings)
		}

	case models.BetTypeGrowthCash:
		if result == models.PredictionResultWin {
			alloc.PlatformFee = winnings.Mul(platformFeeRate).Round(2)
			alloc.GrowthCashCredit = winnings.Sub(alloc.PlatformFee)
			alloc.UpdatedBalance.GrowthCash = balance.GrowthCash.Add(alloc.GrowthCashCredit)
		} else {
			// Fee and portfolio credit partition the stake exactly
			alloc.PlatformFee = stake.Mul(platformFeeRate).Round(2)
			alloc.PortfolioCredit = stake.Sub(alloc.PlatformFee)
			alloc.UpdatedBalance.Portfolio = balance.Portfolio.Add(alloc.PortfolioCredit)
		}

	case models.BetTypeBonusBet:
		if result == models.PredictionResultWin {
			alloc.GrowthCashCredit = winnings
			alloc.UpdatedBalance.GrowthCash = balance.GrowthCash.Add(winnings)
		}

	default:
		return SettlementAllocation{}, models.NewValidationError("unknown bet type %q", betType)
	}

	return alloc, nil
}

// stakeSource maps a bet type to the balance it is staked from
func stakeSource(betType models.BetType) (models.BalanceKind, error) {
	switch betType {
	case models.BetTypeFunTokens:
		return models.BalanceKindSpendable, nil
	case models.BetTypeGrowthCash:
		return models.BalanceKindGrowthCash, nil
	case models.BetTypeBonusBet:
		return models.BalanceKindBonusBets, nil
	default:
		return "", models.NewValidationError("unknown bet type %q", betType)
	}
}

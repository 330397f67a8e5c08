package service

import (
	"sweeps/models"

	"github.com/shopspring/decimal"
)

// PortfolioMaturityDays is the account age at which the portfolio
// withdrawal fee drops from the early rate to the mature rate
const PortfolioMaturityDays = 365

var (
	portfolioEarlyFeeRate  = decimal.RequireFromString("0.50")
	portfolioMatureFeeRate = decimal.RequireFromString("0.05")
)

// FeeBreakdown is the result of a withdrawal fee computation
type FeeBreakdown struct {
	FeeRate   decimal.Decimal
	FeeAmount decimal.Decimal
	NetAmount decimal.Decimal
}

// ComputeWithdrawalFee computes the fee withheld from a gross withdrawal.
// Portfolio withdrawals pay 50% before one year of account age and 5%
// after; growth cash withdrawals are fee-free (eligibility is gated
// separately). The function is pure: the UI preview and the commit path
// call the same implementation and must agree exactly.
func ComputeWithdrawalFee(kind models.BalanceKind, gross decimal.Decimal, accountAgeDays int) (FeeBreakdown, error) {
	if gross.LessThanOrEqual(decimal.Zero) {
		return FeeBreakdown{}, models.NewValidationError("withdrawal amount must be positive, got %s", gross)
	}

	var rate decimal.Decimal
	switch kind {
	case models.BalanceKindPortfolio:
		if accountAgeDays < PortfolioMaturityDays {
			rate = portfolioEarlyFeeRate
		} else {
			rate = portfolioMatureFeeRate
		}
	case models.BalanceKindGrowthCash:
		rate = decimal.Zero
	default:
		return FeeBreakdown{}, models.NewValidationError("balance kind %q is not withdrawable", kind)
	}

	fee := gross.Mul(rate).Round(2)
	return FeeBreakdown{
		FeeRate:   rate,
		FeeAmount: fee,
		NetAmount: gross.Sub(fee),
	}, nil
}

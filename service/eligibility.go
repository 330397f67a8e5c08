package service

import (
	"fmt"

	"sweeps/models"

	"github.com/shopspring/decimal"
)

// CheckWithdrawalEligibility decides whether a withdrawal may proceed
// now. Portfolio balances are withdrawable by any tier (the fee policy
// applies separately). Growth cash is locked permanently for the free
// tier and unlocks for annual subscribers once waitDays have elapsed
// since the qualifying deposit or win. Returns nil when allowed; a
// denial is an *models.IneligibleWithdrawalError carrying a
// machine-readable reason.
func CheckWithdrawalEligibility(kind models.BalanceKind, requested, available decimal.Decimal, tier models.SubscriptionTier, ageDaysSinceQualifyingEvent, waitDays int) error {
	if requested.LessThanOrEqual(decimal.Zero) {
		return models.NewValidationError("withdrawal amount must be positive, got %s", requested)
	}

	switch kind {
	case models.BalanceKindPortfolio:
		// Always tier-eligible; only the balance cap applies

	case models.BalanceKindGrowthCash:
		if tier != models.TierAnnual {
			return &models.IneligibleWithdrawalError{
				Reason:  models.DenialTierNotEligible,
				Message: "growth cash withdrawals require an annual subscription",
			}
		}
		if ageDaysSinceQualifyingEvent < waitDays {
			return &models.IneligibleWithdrawalError{
				Reason: models.DenialLockedPeriodNotElapsed,
				Message: fmt.Sprintf("growth cash unlocks %d days after the qualifying deposit or win, %d elapsed",
					waitDays, ageDaysSinceQualifyingEvent),
			}
		}

	default:
		return models.NewValidationError("balance kind %q is not withdrawable", kind)
	}

	if requested.GreaterThan(available) {
		return &models.IneligibleWithdrawalError{
			Reason:  models.DenialInsufficientBalance,
			Message: fmt.Sprintf("requested %s exceeds available %s", requested, available),
		}
	}

	return nil
}

package service

import (
	"time"

	"sweeps/models"

	"github.com/shopspring/decimal"
)

var operatingCostRate = decimal.RequireFromString("0.03")

// MetricsInput is the full record set the reducer folds over
type MetricsInput struct {
	Deposits      []*models.Deposit
	Withdrawals   []*models.WithdrawalRequest
	Balances      []*models.BalanceRecord
	Predictions   []*models.Prediction
	Subscriptions []*models.Subscription
}

// ReduceMetrics folds the platform's record sets into financial KPIs.
// Platform fee revenue is estimated uniformly at 10% of every growth
// cash stake regardless of outcome, a coarser base than the win/loss
// asymmetric settlement fee. Empty input yields all-zero output.
func ReduceMetrics(in MetricsInput, now time.Time, annualPrice decimal.Decimal) models.PlatformMetrics {
	m := models.PlatformMetrics{
		TotalDeposits:       decimal.Zero,
		TotalInvested:       decimal.Zero,
		PlatformFeeRevenue:  decimal.Zero,
		SubscriptionRevenue: decimal.Zero,
		WithdrawalFees:      decimal.Zero,
		TotalRevenue:        decimal.Zero,
		NetRevenue:          decimal.Zero,
	}

	for _, d := range in.Deposits {
		m.TotalDeposits = m.TotalDeposits.Add(d.Amount)
	}

	for _, b := range in.Balances {
		m.TotalInvested = m.TotalInvested.Add(b.Portfolio)
	}

	for _, p := range in.Predictions {
		if p.BetType == models.BetTypeGrowthCash {
			m.PlatformFeeRevenue = m.PlatformFeeRevenue.Add(p.Stake.Mul(platformFeeRate).Round(2))
		}
	}
	m.TotalPredictions = len(in.Predictions)

	for _, s := range in.Subscriptions {
		if s.ActiveTier(now) == models.TierAnnual {
			m.ActiveSubscribers++
		}
	}
	m.SubscriptionRevenue = annualPrice.Mul(decimal.NewFromInt(int64(m.ActiveSubscribers)))

	for _, w := range in.Withdrawals {
		ageDays := int(now.Sub(w.CreatedAt).Hours() / 24)
		breakdown, err := ComputeWithdrawalFee(w.BalanceKind, w.Amount, ageDays)
		if err != nil {
			continue
		}
		m.WithdrawalFees = m.WithdrawalFees.Add(breakdown.FeeAmount)
	}

	m.TotalRevenue = m.PlatformFeeRevenue.Add(m.SubscriptionRevenue).Add(m.WithdrawalFees)
	m.NetRevenue = m.TotalRevenue.Sub(m.TotalDeposits.Mul(operatingCostRate).Round(2))

	return m
}

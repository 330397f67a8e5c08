package models

import "github.com/shopspring/decimal"

// PlatformMetrics holds the aggregated financial KPIs shown on the
// admin dashboard
type PlatformMetrics struct {
	TotalDeposits       decimal.Decimal
	TotalInvested       decimal.Decimal
	PlatformFeeRevenue  decimal.Decimal
	SubscriptionRevenue decimal.Decimal
	WithdrawalFees      decimal.Decimal
	TotalRevenue        decimal.Decimal
	NetRevenue          decimal.Decimal
	ActiveSubscribers   int
	TotalPredictions    int
}

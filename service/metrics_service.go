package service

import (
	"context"
	"fmt"
	"time"

	"sweeps/config"
	"sweeps/models"
)

type metricsService struct {
	uowFactory UnitOfWorkFactory
}

// NewMetricsService creates a new metrics service
func NewMetricsService(uowFactory UnitOfWorkFactory) MetricsService {
	return &metricsService{
		uowFactory: uowFactory,
	}
}

// GetPlatformMetrics batch-reads every record set and folds it through
// the pure reducer. Reporting only, never mutates.
func (s *metricsService) GetPlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deposits, err := uow.DepositRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits: %w", err)
	}
	withdrawals, err := uow.WithdrawalRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals: %w", err)
	}
	balances, err := uow.BalanceRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	predictions, err := uow.PredictionRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	subscriptions, err := uow.SubscriptionRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	metrics := ReduceMetrics(MetricsInput{
		Deposits:      deposits,
		Withdrawals:   withdrawals,
		Balances:      balances,
		Predictions:   predictions,
		Subscriptions: subscriptions,
	}, time.Now().UTC(), config.Get().AnnualSubscriptionPrice)

	return &metrics, nil
}

package service

import (
	"context"
	"fmt"

	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type depositService struct {
	uowFactory UnitOfWorkFactory
}

// NewDepositService creates a new deposit service
func NewDepositService(uowFactory UnitOfWorkFactory) DepositService {
	return &depositService{
		uowFactory: uowFactory,
	}
}

// Deposit credits growth cash with a simulated deposit. The balance
// record is created on first deposit.
func (s *depositService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.BalanceRecord, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("deposit amount must be positive, got %s", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance record: %w", err)
	}
	if balance == nil {
		balance, err = uow.BalanceRepository().Create(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create balance record: %w", err)
		}
	}

	deposit := &models.Deposit{
		UserID: userID,
		Amount: amount,
	}
	if err := uow.DepositRepository().Create(ctx, deposit); err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}

	before := balance.GrowthCash
	balance.GrowthCash = before.Add(amount)
	if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to credit deposit: %w", err)
	}

	relatedType := models.RelatedTypeDeposit
	entry := &models.LedgerEntry{
		UserID:        userID,
		BalanceKind:   models.BalanceKindGrowthCash,
		BalanceBefore: before,
		BalanceAfter:  balance.GrowthCash,
		ChangeAmount:  amount,
		EntryType:     models.EntryTypeDeposit,
		RelatedID:     &deposit.ID,
		RelatedType:   &relatedType,
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount,
	}).Info("Deposit credited")

	return balance, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"sweeps/config"
	"sweeps/events"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type predictionService struct {
	uowFactory UnitOfWorkFactory
}

// NewPredictionService creates a new prediction service
func NewPredictionService(uowFactory UnitOfWorkFactory) PredictionService {
	return &predictionService{
		uowFactory: uowFactory,
	}
}

func (s *predictionService) PlacePrediction(ctx context.Context, userID uuid.UUID, betType models.BetType, stake decimal.Decimal, odds string, selections []string) (*models.Prediction, error) {
	// Validate inputs before touching the store
	if stake.LessThanOrEqual(decimal.Zero) {
		return nil, models.NewValidationError("stake must be positive, got %s", stake)
	}
	sourceKind, err := stakeSource(betType)
	if err != nil {
		return nil, err
	}
	oddsValue, err := ParseAmericanOdds(odds)
	if err != nil {
		return nil, err
	}
	// Bonus bets are restricted to positive-odds selections
	if betType == models.BetTypeBonusBet && oddsValue <= 0 {
		return nil, models.NewValidationError("bonus bets may only be placed on positive odds, got %s", odds)
	}
	if len(selections) == 0 {
		return nil, models.NewValidationError("at least one selection is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	balance, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance record: %w", err)
	}
	if balance == nil {
		return nil, models.ErrNotFound
	}

	// Stake is deducted at placement; settlement only ever credits
	available := balance.Amount(sourceKind)
	if stake.GreaterThan(available) {
		return nil, &models.InsufficientFundsError{
			Kind:      sourceKind,
			Available: available.String(),
			Requested: stake.String(),
		}
	}

	balance.SetAmount(sourceKind, available.Sub(stake))
	if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to deduct stake: %w", err)
	}

	prediction := &models.Prediction{
		UserID:      userID,
		Stake:       stake,
		BetType:     betType,
		Selections:  selections,
		Odds:        odds,
		Result:      models.PredictionResultPending,
		Winnings:    decimal.Zero,
		PlatformFee: decimal.Zero,
	}
	if err := uow.PredictionRepository().Create(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	relatedType := models.RelatedTypePrediction
	entry := &models.LedgerEntry{
		UserID:        userID,
		BalanceKind:   sourceKind,
		BalanceBefore: available,
		BalanceAfter:  balance.Amount(sourceKind),
		ChangeAmount:  stake.Neg(),
		EntryType:     models.EntryTypeStake,
		Metadata: map[string]any{
			"bet_type": string(betType),
			"odds":     odds,
		},
		RelatedID:   &prediction.ID,
		RelatedType: &relatedType,
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":  userID,
		"betType": betType,
		"stake":   stake,
	}).Info("Prediction placed")

	return prediction, nil
}

func (s *predictionService) SettlePrediction(ctx context.Context, predictionID int64, result models.PredictionResult) (*models.SettlementResult, error) {
	if result != models.PredictionResultWin && result != models.PredictionResultLoss {
		return nil, models.NewValidationError("settlement result must be win or loss, got %q", result)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	prediction, err := uow.PredictionRepository().GetByID(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	if prediction == nil {
		return nil, models.ErrNotFound
	}
	if prediction.Result != models.PredictionResultPending {
		return nil, models.NewValidationError("prediction %d is already settled as %s", predictionID, prediction.Result)
	}

	balance, err := uow.BalanceRepository().GetByUserID(ctx, prediction.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance record: %w", err)
	}
	if balance == nil {
		return nil, models.ErrNotFound
	}

	winnings := decimal.Zero
	if result == models.PredictionResultWin {
		oddsValue, err := ParseAmericanOdds(prediction.Odds)
		if err != nil {
			return nil, err
		}
		winnings = ComputeWinnings(prediction.Stake, oddsValue, config.Get().MaxWinAmount)
	}

	alloc, err := AllocateSettlement(*balance, prediction.BetType, prediction.Stake, winnings, result)
	if err != nil {
		return nil, err
	}

	updated := alloc.UpdatedBalance
	if err := uow.BalanceRepository().Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to apply settlement: %w", err)
	}

	now := time.Now().UTC()
	prediction.Result = result
	prediction.Winnings = winnings
	prediction.PlatformFee = alloc.PlatformFee
	prediction.SettledAt = &now
	if err := uow.PredictionRepository().Settle(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to settle prediction: %w", err)
	}

	if err := s.recordSettlementEntries(ctx, uow, balance, prediction, alloc); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.PredictionSettledEvent{
		UserID:       prediction.UserID,
		PredictionID: prediction.ID,
		BetType:      prediction.BetType,
		Result:       result,
		Stake:        prediction.Stake,
		Winnings:     winnings,
		PlatformFee:  alloc.PlatformFee,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"predictionID": prediction.ID,
		"userID":       prediction.UserID,
		"result":       result,
		"winnings":     winnings,
		"platformFee":  alloc.PlatformFee,
	}).Info("Prediction settled")

	return &models.SettlementResult{
		Prediction:       prediction,
		PlatformFee:      alloc.PlatformFee,
		PortfolioCredit:  alloc.PortfolioCredit,
		GrowthCashCredit: alloc.GrowthCashCredit,
		SpendableCredit:  alloc.SpendableCredit,
		NewBalance:       &updated,
	}, nil
}

// recordSettlementEntries writes one ledger entry per credited balance
func (s *predictionService) recordSettlementEntries(ctx context.Context, uow UnitOfWork, before *models.BalanceRecord, prediction *models.Prediction, alloc SettlementAllocation) error {
	entryType := models.EntryTypePredictionWin
	if prediction.Result == models.PredictionResultLoss {
		entryType = models.EntryTypePredictionLoss
	}
	relatedType := models.RelatedTypePrediction

	credits := []struct {
		kind   models.BalanceKind
		amount decimal.Decimal
	}{
		{models.BalanceKindSpendable, alloc.SpendableCredit},
		{models.BalanceKindPortfolio, alloc.PortfolioCredit},
		{models.BalanceKindGrowthCash, alloc.GrowthCashCredit},
	}

	for _, credit := range credits {
		if credit.amount.IsZero() {
			continue
		}
		entry := &models.LedgerEntry{
			UserID:        prediction.UserID,
			BalanceKind:   credit.kind,
			BalanceBefore: before.Amount(credit.kind),
			BalanceAfter:  before.Amount(credit.kind).Add(credit.amount),
			ChangeAmount:  credit.amount,
			EntryType:     entryType,
			Metadata: map[string]any{
				"bet_type":     string(prediction.BetType),
				"platform_fee": alloc.PlatformFee.String(),
			},
			RelatedID:   &prediction.ID,
			RelatedType: &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *predictionService) GetUserPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Prediction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	predictions, err := uow.PredictionRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	return predictions, nil
}

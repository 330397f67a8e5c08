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

type withdrawalService struct {
	uowFactory UnitOfWorkFactory
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory) WithdrawalService {
	return &withdrawalService{
		uowFactory: uowFactory,
	}
}

func (s *withdrawalService) PreviewFee(ctx context.Context, userID uuid.UUID, kind models.BalanceKind, amount decimal.Decimal) (*FeeBreakdown, error) {
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
		return nil, models.ErrNotFound
	}

	breakdown, err := ComputeWithdrawalFee(kind, amount, balance.AccountAgeDays(time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *withdrawalService) RequestWithdrawal(ctx context.Context, userID uuid.UUID, kind models.BalanceKind, amount decimal.Decimal) (*models.WithdrawalRequest, error) {
	if kind != models.BalanceKindPortfolio && kind != models.BalanceKindGrowthCash {
		return nil, models.NewValidationError("balance kind %q is not withdrawable", kind)
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
		return nil, models.ErrNotFound
	}

	now := time.Now().UTC()

	subscription, err := uow.SubscriptionRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	tier := subscription.ActiveTier(now)

	qualifyingAgeDays, err := s.qualifyingEventAgeDays(ctx, uow, userID, kind, now)
	if err != nil {
		return nil, err
	}

	available := balance.Amount(kind)
	if err := CheckWithdrawalEligibility(kind, amount, available, tier, qualifyingAgeDays, config.Get().GrowthCashWaitDays); err != nil {
		return nil, err
	}

	// Same pure policy the preview path uses; the two must agree exactly
	breakdown, err := ComputeWithdrawalFee(kind, amount, balance.AccountAgeDays(now))
	if err != nil {
		return nil, err
	}

	// Reserve the gross amount while the request is in flight
	balance.SetAmount(kind, available.Sub(amount))
	balance.PendingWithdrawal = balance.PendingWithdrawal.Add(amount)
	if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to reserve withdrawal amount: %w", err)
	}

	request := &models.WithdrawalRequest{
		UserID:      userID,
		BalanceKind: kind,
		Amount:      amount,
		FeeRate:     breakdown.FeeRate,
		FeeAmount:   breakdown.FeeAmount,
		NetAmount:   breakdown.NetAmount,
		Status:      models.WithdrawalStatusPending,
	}
	if err := uow.WithdrawalRepository().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	relatedType := models.RelatedTypeWithdrawal
	entry := &models.LedgerEntry{
		UserID:        userID,
		BalanceKind:   kind,
		BalanceBefore: available,
		BalanceAfter:  balance.Amount(kind),
		ChangeAmount:  amount.Neg(),
		EntryType:     models.EntryTypeWithdrawal,
		Metadata: map[string]any{
			"fee_rate":   breakdown.FeeRate.String(),
			"fee_amount": breakdown.FeeAmount.String(),
			"net_amount": breakdown.NetAmount.String(),
		},
		RelatedID:   &request.ID,
		RelatedType: &relatedType,
	}
	if err := RecordBalanceChange(ctx, uow, entry); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		UserID:       userID,
		WithdrawalID: request.ID,
		BalanceKind:  kind,
		Amount:       amount,
		NetAmount:    breakdown.NetAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":      userID,
		"balanceKind": kind,
		"amount":      amount,
		"netAmount":   breakdown.NetAmount,
	}).Info("Withdrawal requested")

	return request, nil
}

// qualifyingEventAgeDays returns whole days since the most recent
// growth cash qualifying event (deposit or growth cash win). Portfolio
// withdrawals have no waiting period so the answer is unused there.
func (s *withdrawalService) qualifyingEventAgeDays(ctx context.Context, uow UnitOfWork, userID uuid.UUID, kind models.BalanceKind, now time.Time) (int, error) {
	if kind != models.BalanceKindGrowthCash {
		return 0, nil
	}

	depositTime, err := uow.DepositRepository().GetLatestTime(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest deposit: %w", err)
	}
	winTime, err := uow.PredictionRepository().GetLatestWinTime(ctx, userID, models.BetTypeGrowthCash)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest win: %w", err)
	}

	latest := depositTime
	if winTime != nil && (latest == nil || winTime.After(*latest)) {
		latest = winTime
	}
	if latest == nil {
		// Nothing qualifying yet; the lock clock has not started
		return 0, nil
	}
	return int(now.Sub(*latest).Hours() / 24), nil
}

func (s *withdrawalService) ResolveRequest(ctx context.Context, requestID int64, status models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.WithdrawalRepository().GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	if request == nil {
		return nil, models.ErrNotFound
	}

	if !validWithdrawalTransition(request.Status, status) {
		return nil, models.NewValidationError("cannot move withdrawal %d from %s to %s", requestID, request.Status, status)
	}

	balance, err := uow.BalanceRepository().GetByUserID(ctx, request.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance record: %w", err)
	}
	if balance == nil {
		return nil, models.ErrNotFound
	}

	relatedType := models.RelatedTypeWithdrawal
	switch status {
	case models.WithdrawalStatusRejected:
		// Return the reserved amount to its source balance
		sourceBefore := balance.Amount(request.BalanceKind)
		balance.SetAmount(request.BalanceKind, sourceBefore.Add(request.Amount))
		balance.PendingWithdrawal = balance.PendingWithdrawal.Sub(request.Amount)
		if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
			return nil, fmt.Errorf("failed to return reserved amount: %w", err)
		}
		entry := &models.LedgerEntry{
			UserID:        request.UserID,
			BalanceKind:   request.BalanceKind,
			BalanceBefore: sourceBefore,
			BalanceAfter:  balance.Amount(request.BalanceKind),
			ChangeAmount:  request.Amount,
			EntryType:     models.EntryTypeWithdrawalReturn,
			RelatedID:     &request.ID,
			RelatedType:   &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, entry); err != nil {
			return nil, err
		}

	case models.WithdrawalStatusCompleted:
		// The payout left the platform; release the reservation
		pendingBefore := balance.PendingWithdrawal
		balance.PendingWithdrawal = pendingBefore.Sub(request.Amount)
		if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
			return nil, fmt.Errorf("failed to release reservation: %w", err)
		}
		entry := &models.LedgerEntry{
			UserID:        request.UserID,
			BalanceKind:   models.BalanceKindPendingWithdrawal,
			BalanceBefore: pendingBefore,
			BalanceAfter:  balance.PendingWithdrawal,
			ChangeAmount:  request.Amount.Neg(),
			EntryType:     models.EntryTypeWithdrawal,
			RelatedID:     &request.ID,
			RelatedType:   &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, entry); err != nil {
			return nil, err
		}
	}

	if err := uow.WithdrawalRepository().UpdateStatus(ctx, requestID, status); err != nil {
		return nil, fmt.Errorf("failed to update withdrawal status: %w", err)
	}
	request.Status = status

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return request, nil
}

// validWithdrawalTransition enforces the forward-only request lifecycle
func validWithdrawalTransition(from, to models.WithdrawalStatus) bool {
	switch from {
	case models.WithdrawalStatusPending:
		return to == models.WithdrawalStatusApproved || to == models.WithdrawalStatusRejected
	case models.WithdrawalStatusApproved:
		return to == models.WithdrawalStatusCompleted
	}
	return false
}

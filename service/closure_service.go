package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sweeps/config"
	"sweeps/events"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type closureService struct {
	uowFactory UnitOfWorkFactory
	rail       PaymentRail
	identity   IdentityProvider
}

// NewClosureService creates a new account closure service
func NewClosureService(uowFactory UnitOfWorkFactory, rail PaymentRail, identity IdentityProvider) ClosureService {
	return &closureService{
		uowFactory: uowFactory,
		rail:       rail,
		identity:   identity,
	}
}

// CloseAccount runs the closure settlement: compute fees, issue the
// final payout, purge all dependent records, delete the auth identity.
// Any failure before the purge leaves the account fully intact with the
// deletion record parked at the last successful step.
func (s *closureService) CloseAccount(ctx context.Context, userID uuid.UUID, reason string) (*models.ClosureResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.NewValidationError("a deletion reason is required")
	}

	deletion, reservedVersion, err := s.computeFees(ctx, userID, reason)
	if err != nil {
		return nil, err
	}

	result := &models.ClosureResult{
		WithdrawalAmount: deletion.TotalWithdrawable,
		FeesApplied:      deletion.TotalFees,
	}

	// Withdrawal processing. A zero balance short-circuits the transfer;
	// a missing or failing rail parks the record for manual payout with
	// the account rows intact and the payout held in pending withdrawal.
	if deletion.TotalWithdrawable.GreaterThan(decimal.Zero) {
		if !s.rail.Configured() {
			if err := s.updateStatus(ctx, deletion.ID, models.DeletionStatusPendingWithdrawal); err != nil {
				return nil, err
			}
			result.Status = models.DeletionStatusPendingWithdrawal
			log.WithField("userID", userID).Warn("No payment rail configured, closure pending manual withdrawal")
			return result, nil
		}

		transferID, err := s.rail.CreateTransfer(ctx, deletion.TotalWithdrawable, config.Get().PaymentRailDestination)
		if err != nil {
			if statusErr := s.updateStatus(ctx, deletion.ID, models.DeletionStatusPendingWithdrawal); statusErr != nil {
				return nil, statusErr
			}
			result.Status = models.DeletionStatusPendingWithdrawal
			log.WithFields(log.Fields{
				"userID": userID,
				"error":  err,
			}).Warn("Transfer failed, closure pending manual withdrawal")
			return result, nil
		}
		if err := s.recordTransfer(ctx, deletion.ID, transferID); err != nil {
			return nil, err
		}
	}

	if err := s.updateStatus(ctx, deletion.ID, models.DeletionStatusProcessing); err != nil {
		return nil, err
	}

	if err := s.purge(ctx, userID, reservedVersion); err != nil {
		return nil, err
	}

	// The auth identity goes last, after all dependent rows are gone
	if err := s.identity.DeleteIdentity(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete auth identity: %w", err)
	}

	if err := s.complete(ctx, userID, deletion); err != nil {
		return nil, err
	}

	result.Status = models.DeletionStatusCompleted
	log.WithFields(log.Fields{
		"userID":           userID,
		"withdrawalAmount": deletion.TotalWithdrawable,
		"feesApplied":      deletion.TotalFees,
	}).Info("Account closed")

	return result, nil
}

// computeFees snapshots the balances and applies the fee policy.
// Portfolio pays the age-based fee; growth cash is withdrawn in full
// with no fee or tier gating at closure, a documented simplification of
// the standing withdrawal rules.
//
// The spendable balances are zeroed and the payout reserved into
// pending withdrawal inside the same version-checked write, so no
// settlement or withdrawal can race the closure from here on. The
// returned version is re-asserted before the purge.
func (s *closureService) computeFees(ctx context.Context, userID uuid.UUID, reason string) (*models.AccountDeletion, int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get balance record: %w", err)
	}
	if balance == nil {
		return nil, 0, models.ErrNotFound
	}

	totalFees := decimal.Zero
	totalWithdrawable := balance.GrowthCash

	if balance.Portfolio.GreaterThan(decimal.Zero) {
		breakdown, err := ComputeWithdrawalFee(models.BalanceKindPortfolio, balance.Portfolio, balance.AccountAgeDays(time.Now().UTC()))
		if err != nil {
			return nil, 0, err
		}
		totalFees = breakdown.FeeAmount
		totalWithdrawable = totalWithdrawable.Add(breakdown.NetAmount)
	}

	deletion := &models.AccountDeletion{
		UserID:             userID,
		Reason:             strings.TrimSpace(reason),
		SpendableSnapshot:  balance.Spendable,
		PortfolioSnapshot:  balance.Portfolio,
		GrowthCashSnapshot: balance.GrowthCash,
		TotalFees:          totalFees,
		TotalWithdrawable:  totalWithdrawable,
		Status:             models.DeletionStatusPending,
	}

	balance.Spendable = decimal.Zero
	balance.Portfolio = decimal.Zero
	balance.GrowthCash = decimal.Zero
	balance.BonusBets = decimal.Zero
	balance.PendingWithdrawal = balance.PendingWithdrawal.Add(totalWithdrawable)
	if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
		return nil, 0, fmt.Errorf("failed to reserve balances for closure: %w", err)
	}

	if err := uow.DeletionRepository().Create(ctx, deletion); err != nil {
		return nil, 0, fmt.Errorf("failed to create deletion record: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return deletion, balance.Version, nil
}

// purge deletes all dependent per-user records in dependency order,
// inside one transaction so a failure leaves everything intact. The
// balance version must still match the reservation made in computeFees;
// a mismatch means money moved during the closure window and the caller
// retries with the deletion record still at processing.
func (s *closureService) purge(ctx context.Context, userID uuid.UUID, expectedVersion int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	current, err := uow.BalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to recheck balance record: %w", err)
	}
	if current == nil || current.Version != expectedVersion {
		return fmt.Errorf("balance changed during closure: %w", models.ErrWriteConflict)
	}

	if err := uow.LedgerEntryRepository().DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	if err := uow.PredictionRepository().DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete predictions: %w", err)
	}
	if err := uow.WithdrawalRepository().DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete withdrawal requests: %w", err)
	}
	if err := uow.DepositRepository().DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete deposits: %w", err)
	}
	if err := uow.SubscriptionRepository().Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if err := uow.BalanceRepository().Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete balance record: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}
	return nil
}

func (s *closureService) complete(ctx context.Context, userID uuid.UUID, deletion *models.AccountDeletion) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DeletionRepository().MarkCompleted(ctx, deletion.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark deletion completed: %w", err)
	}

	uow.EventBus().Publish(events.AccountClosedEvent{
		UserID:           userID,
		DeletionID:       deletion.ID,
		WithdrawalAmount: deletion.TotalWithdrawable,
		FeesApplied:      deletion.TotalFees,
		Status:           models.DeletionStatusCompleted,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *closureService) updateStatus(ctx context.Context, deletionID int64, status models.DeletionStatus) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DeletionRepository().UpdateStatus(ctx, deletionID, status); err != nil {
		return fmt.Errorf("failed to update deletion status: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *closureService) recordTransfer(ctx context.Context, deletionID int64, transferID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DeletionRepository().SetTransfer(ctx, deletionID, transferID); err != nil {
		return fmt.Errorf("failed to record transfer id: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

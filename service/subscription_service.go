package service

import (
	"context"
	"fmt"
	"time"

	"sweeps/config"
	"sweeps/events"
	"sweeps/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type subscriptionService struct {
	uowFactory UnitOfWorkFactory
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(uowFactory UnitOfWorkFactory) SubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
	}
}

func (s *subscriptionService) GetTier(ctx context.Context, userID uuid.UUID) (models.SubscriptionTier, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	subscription, err := uow.SubscriptionRepository().GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get subscription: %w", err)
	}
	return subscription.ActiveTier(time.Now().UTC()), nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := time.Now().UTC()
	expires := now.AddDate(1, 0, 0)

	existing, err := uow.SubscriptionRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if existing.ActiveTier(now) == models.TierAnnual {
		return nil, models.NewValidationError("user already has an active annual subscription")
	}

	subscription := &models.Subscription{
		UserID:       userID,
		Tier:         models.TierAnnual,
		SubscribedAt: &now,
		ExpiresAt:    &expires,
	}
	if err := uow.SubscriptionRepository().Upsert(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("userID", userID).Info("Annual subscription started")
	return subscription, nil
}

// GrantDueBonuses credits the periodic bonus bet to every active annual
// subscriber whose grant interval has elapsed. Returns how many users
// were credited.
func (s *subscriptionService) GrantDueBonuses(ctx context.Context) (int, error) {
	cfg := config.Get()
	now := time.Now().UTC()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	subscriptions, err := uow.SubscriptionRepository().GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	granted := 0
	for _, sub := range subscriptions {
		if sub.ActiveTier(now) != models.TierAnnual {
			continue
		}
		if !bonusDue(sub, now, cfg.BonusBetIntervalMonths) {
			continue
		}

		balance, err := uow.BalanceRepository().GetByUserID(ctx, sub.UserID)
		if err != nil {
			return 0, fmt.Errorf("failed to get balance for %s: %w", sub.UserID, err)
		}
		if balance == nil {
			continue
		}

		before := balance.BonusBets
		balance.BonusBets = before.Add(cfg.BonusBetAmount)
		if err := uow.BalanceRepository().Update(ctx, balance); err != nil {
			return 0, fmt.Errorf("failed to credit bonus for %s: %w", sub.UserID, err)
		}

		entry := &models.LedgerEntry{
			UserID:        sub.UserID,
			BalanceKind:   models.BalanceKindBonusBets,
			BalanceBefore: before,
			BalanceAfter:  balance.BonusBets,
			ChangeAmount:  cfg.BonusBetAmount,
			EntryType:     models.EntryTypeBonusGrant,
		}
		if err := RecordBalanceChange(ctx, uow, entry); err != nil {
			return 0, err
		}

		sub.LastBonusGrantAt = &now
		if err := uow.SubscriptionRepository().Upsert(ctx, sub); err != nil {
			return 0, fmt.Errorf("failed to record grant time for %s: %w", sub.UserID, err)
		}

		uow.EventBus().Publish(events.BonusGrantedEvent{
			UserID: sub.UserID,
			Amount: cfg.BonusBetAmount,
		})
		granted++
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if granted > 0 {
		log.WithField("granted", granted).Info("Bonus bets granted")
	}
	return granted, nil
}

// bonusDue reports whether the subscriber's grant interval has elapsed.
// The first grant anchors on the subscription start.
func bonusDue(sub *models.Subscription, now time.Time, intervalMonths int) bool {
	anchor := sub.LastBonusGrantAt
	if anchor == nil {
		anchor = sub.SubscribedAt
	}
	if anchor == nil {
		return false
	}
	return !anchor.AddDate(0, intervalMonths, 0).After(now)
}

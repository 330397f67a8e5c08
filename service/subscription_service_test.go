package service

import (
	"context"
	"testing"
	"time"

	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubscriptionServiceMocks() (SubscriptionService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockSubscriptionRepository, *MockBalanceRepository, *MockLedgerEntryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSubscriptionRepo := new(MockSubscriptionRepository)
	mockBalanceRepo := new(MockBalanceRepository)
	mockLedgerRepo := new(MockLedgerEntryRepository)

	mockUoW.SetRepositories(mockBalanceRepo, mockLedgerRepo, nil, nil, nil, mockSubscriptionRepo, nil)
	mockFactory.On("Create").Return(mockUoW)

	service := NewSubscriptionService(mockFactory)
	return service, mockFactory, mockUoW, mockSubscriptionRepo, mockBalanceRepo, mockLedgerRepo
}

func TestSubscriptionService_GetTier(t *testing.T) {
	ctx := context.Background()

	t.Run("no subscription is free tier", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, _, _ := newSubscriptionServiceMocks()
		userID := uuid.New()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockSubscriptionRepo.On("GetByUserID", ctx, userID).Return(nil, nil)

		tier, err := service.GetTier(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.TierFree, tier)
	})

	t.Run("expired annual falls back to free", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, _, _ := newSubscriptionServiceMocks()
		userID := uuid.New()

		expired := time.Now().UTC().AddDate(0, -1, 0)
		subscribedAt := expired.AddDate(-1, 0, 0)
		sub := &models.Subscription{
			UserID:       userID,
			Tier:         models.TierAnnual,
			SubscribedAt: &subscribedAt,
			ExpiresAt:    &expired,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockSubscriptionRepo.On("GetByUserID", ctx, userID).Return(sub, nil)

		tier, err := service.GetTier(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.TierFree, tier)
	})
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("new subscriber", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, _, _ := newSubscriptionServiceMocks()
		userID := uuid.New()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSubscriptionRepo.On("GetByUserID", ctx, userID).Return(nil, nil)
		mockSubscriptionRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.Subscription) bool {
			return s.UserID == userID &&
				s.Tier == models.TierAnnual &&
				s.SubscribedAt != nil &&
				s.ExpiresAt != nil &&
				s.ExpiresAt.Sub(*s.SubscribedAt) > 364*24*time.Hour
		})).Return(nil)

		sub, err := service.Subscribe(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.TierAnnual, sub.Tier)

		mockUoW.AssertExpectations(t)
		mockSubscriptionRepo.AssertExpectations(t)
	})

	t.Run("already active annual is rejected", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, _, _ := newSubscriptionServiceMocks()
		userID := uuid.New()

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockSubscriptionRepo.On("GetByUserID", ctx, userID).Return(annualSubscription(userID), nil)

		sub, err := service.Subscribe(ctx, userID)
		require.Error(t, err)
		assert.Nil(t, sub)

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		mockUoW.AssertNotCalled(t, "Commit")
		mockSubscriptionRepo.AssertNotCalled(t, "Upsert")
	})

	t.Run("lapsed annual may renew", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, _, _ := newSubscriptionServiceMocks()
		userID := uuid.New()

		expired := time.Now().UTC().AddDate(0, -2, 0)
		subscribedAt := expired.AddDate(-1, 0, 0)
		lapsed := &models.Subscription{
			UserID:       userID,
			Tier:         models.TierAnnual,
			SubscribedAt: &subscribedAt,
			ExpiresAt:    &expired,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSubscriptionRepo.On("GetByUserID", ctx, userID).Return(lapsed, nil)
		mockSubscriptionRepo.On("Upsert", ctx, mock.Anything).Return(nil)

		sub, err := service.Subscribe(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.TierAnnual, sub.Tier)
	})
}

func TestSubscriptionService_GrantDueBonuses(t *testing.T) {
	ctx := context.Background()

	t.Run("due subscriber is credited", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, mockBalanceRepo, mockLedgerRepo := newSubscriptionServiceMocks()
		userID := uuid.New()

		// Subscribed five months ago, never granted: past the interval
		subscribedAt := time.Now().UTC().AddDate(0, -5, 0)
		expiresAt := subscribedAt.AddDate(1, 0, 0)
		due := &models.Subscription{
			UserID:       userID,
			Tier:         models.TierAnnual,
			SubscribedAt: &subscribedAt,
			ExpiresAt:    &expiresAt,
		}
		balance := &models.BalanceRecord{
			UserID:    userID,
			BonusBets: decimal.NewFromInt(5),
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSubscriptionRepo.On("GetAll", ctx).Return([]*models.Subscription{due}, nil)
		mockBalanceRepo.On("GetByUserID", ctx, userID).Return(balance, nil)

		mockBalanceRepo.On("Update", ctx, mock.MatchedBy(func(b *models.BalanceRecord) bool {
			return b.BonusBets.Equal(decimal.NewFromInt(30))
		})).Return(nil)

		mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
			return e.BalanceKind == models.BalanceKindBonusBets &&
				e.EntryType == models.EntryTypeBonusGrant &&
				e.ChangeAmount.Equal(decimal.NewFromInt(25))
		})).Return(nil)

		mockSubscriptionRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.Subscription) bool {
			return s.UserID == userID && s.LastBonusGrantAt != nil
		})).Return(nil)

		granted, err := service.GrantDueBonuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, granted)

		mockUoW.AssertExpectations(t)
		mockBalanceRepo.AssertExpectations(t)
		mockLedgerRepo.AssertExpectations(t)
	})

	t.Run("recent grant is skipped", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, mockBalanceRepo, _ := newSubscriptionServiceMocks()
		userID := uuid.New()

		subscribedAt := time.Now().UTC().AddDate(0, -6, 0)
		expiresAt := subscribedAt.AddDate(1, 0, 0)
		lastGrant := time.Now().UTC().AddDate(0, -1, 0)
		recent := &models.Subscription{
			UserID:           userID,
			Tier:             models.TierAnnual,
			SubscribedAt:     &subscribedAt,
			ExpiresAt:        &expiresAt,
			LastBonusGrantAt: &lastGrant,
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSubscriptionRepo.On("GetAll", ctx).Return([]*models.Subscription{recent}, nil)

		granted, err := service.GrantDueBonuses(ctx)
		require.NoError(t, err)
		assert.Zero(t, granted)

		mockBalanceRepo.AssertNotCalled(t, "Update")
	})

	t.Run("free and expired subscribers are skipped", func(t *testing.T) {
		service, _, mockUoW, mockSubscriptionRepo, mockBalanceRepo, _ := newSubscriptionServiceMocks()

		expired := time.Now().UTC().AddDate(0, -1, 0)
		subscribedAt := expired.AddDate(-1, 0, 0)
		subs := []*models.Subscription{
			{UserID: uuid.New(), Tier: models.TierFree},
			{UserID: uuid.New(), Tier: models.TierAnnual, SubscribedAt: &subscribedAt, ExpiresAt: &expired},
		}

		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockSubscriptionRepo.On("GetAll", ctx).Return(subs, nil)

		granted, err := service.GrantDueBonuses(ctx)
		require.NoError(t, err)
		assert.Zero(t, granted)

		mockBalanceRepo.AssertNotCalled(t, "GetByUserID")
	})
}

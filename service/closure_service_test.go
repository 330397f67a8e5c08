package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type closureMocks struct {
	factory          *MockUnitOfWorkFactory
	uow              *MockUnitOfWork
	balanceRepo      *MockBalanceRepository
	ledgerRepo       *MockLedgerEntryRepository
	predictionRepo   *MockPredictionRepository
	withdrawalRepo   *MockWithdrawalRepository
	depositRepo      *MockDepositRepository
	subscriptionRepo *MockSubscriptionRepository
	deletionRepo     *MockDeletionRepository
	rail             *MockPaymentRail
	identity         *MockIdentityProvider
}

func newClosureServiceMocks() (ClosureService, *closureMocks) {
	m := &closureMocks{
		factory:          new(MockUnitOfWorkFactory),
		uow:              new(MockUnitOfWork),
		balanceRepo:      new(MockBalanceRepository),
		ledgerRepo:       new(MockLedgerEntryRepository),
		predictionRepo:   new(MockPredictionRepository),
		withdrawalRepo:   new(MockWithdrawalRepository),
		depositRepo:      new(MockDepositRepository),
		subscriptionRepo: new(MockSubscriptionRepository),
		deletionRepo:     new(MockDeletionRepository),
		rail:             new(MockPaymentRail),
		identity:         new(MockIdentityProvider),
	}
	m.uow.SetRepositories(m.balanceRepo, m.ledgerRepo, m.predictionRepo, m.withdrawalRepo, m.depositRepo, m.subscriptionRepo, m.deletionRepo)
	m.factory.On("Create").Return(m.uow)

	service := NewClosureService(m.factory, m.rail, m.identity)
	return service, m
}

func (m *closureMocks) expectTransactions() {
	m.uow.On("Begin", mock.Anything).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
}

func (m *closureMocks) expectPurge(userID uuid.UUID) {
	m.ledgerRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)
	m.predictionRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)
	m.withdrawalRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)
	m.depositRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)
	m.subscriptionRepo.On("Delete", mock.Anything, userID).Return(nil)
	m.balanceRepo.On("Delete", mock.Anything, userID).Return(nil)
}

func TestClosureService_CloseAccount_FullSettlement(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	userID := uuid.New()
	// 30 day old account: portfolio pays the 50% early fee
	balance := &models.BalanceRecord{
		UserID:    userID,
		Portfolio: decimal.NewFromInt(200),
		OpenedAt:  time.Now().UTC().AddDate(0, 0, -30),
	}

	m.expectTransactions()
	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(balance, nil)

	// Closure zeroes the spendable balances and reserves the payout
	m.balanceRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.BalanceRecord) bool {
		return b.Portfolio.IsZero() &&
			b.GrowthCash.IsZero() &&
			b.PendingWithdrawal.Equal(decimal.NewFromInt(100))
	})).Return(nil)

	m.deletionRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.AccountDeletion) bool {
		return d.UserID == userID &&
			d.PortfolioSnapshot.Equal(decimal.NewFromInt(200)) &&
			d.TotalFees.Equal(decimal.NewFromInt(100)) &&
			d.TotalWithdrawable.Equal(decimal.NewFromInt(100)) &&
			d.Status == models.DeletionStatusPending
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.AccountDeletion).ID = 3
	})

	m.rail.On("Configured").Return(true)
	m.rail.On("CreateTransfer", mock.Anything, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(100))
	}), mock.Anything).Return("tr_123", nil)
	m.deletionRepo.On("SetTransfer", mock.Anything, int64(3), "tr_123").Return(nil)

	m.deletionRepo.On("UpdateStatus", mock.Anything, int64(3), models.DeletionStatusProcessing).Return(nil)
	m.expectPurge(userID)
	m.identity.On("DeleteIdentity", mock.Anything, userID).Return(nil)
	m.deletionRepo.On("MarkCompleted", mock.Anything, int64(3), mock.AnythingOfType("time.Time")).Return(nil)

	result, err := service.CloseAccount(ctx, userID, "moving on")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.DeletionStatusCompleted, result.Status)
	assert.True(t, result.WithdrawalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.FeesApplied.Equal(decimal.NewFromInt(100)))

	m.uow.AssertExpectations(t)
	m.deletionRepo.AssertExpectations(t)
	m.rail.AssertExpectations(t)
	m.identity.AssertExpectations(t)
	m.balanceRepo.AssertExpectations(t)
}

func TestClosureService_CloseAccount_NoRailParksForManualPayout(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	userID := uuid.New()
	balance := &models.BalanceRecord{
		UserID:     userID,
		GrowthCash: decimal.NewFromInt(50),
		OpenedAt:   time.Now().UTC().AddDate(0, 0, -10),
	}

	m.expectTransactions()
	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(balance, nil)
	m.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	m.deletionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.AccountDeletion).ID = 4
	})

	m.rail.On("Configured").Return(false)
	m.deletionRepo.On("UpdateStatus", mock.Anything, int64(4), models.DeletionStatusPendingWithdrawal).Return(nil)

	result, err := service.CloseAccount(ctx, userID, "done with this")

	require.NoError(t, err)
	assert.Equal(t, models.DeletionStatusPendingWithdrawal, result.Status)
	assert.True(t, result.WithdrawalAmount.Equal(decimal.NewFromInt(50)))

	// The account keeps its rows, with the payout parked in pending
	// withdrawal, until the manual payout clears
	assert.True(t, balance.GrowthCash.IsZero())
	assert.True(t, balance.PendingWithdrawal.Equal(decimal.NewFromInt(50)))
	m.balanceRepo.AssertNotCalled(t, "Delete")
	m.identity.AssertNotCalled(t, "DeleteIdentity")
	m.deletionRepo.AssertNotCalled(t, "MarkCompleted")
}

func TestClosureService_CloseAccount_TransferFailureParksForManualPayout(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	userID := uuid.New()
	balance := &models.BalanceRecord{
		UserID:    userID,
		Portfolio: decimal.NewFromInt(400),
		OpenedAt:  time.Now().UTC().AddDate(-2, 0, 0),
	}

	m.expectTransactions()
	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(balance, nil)
	m.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	m.deletionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.AccountDeletion).ID = 5
	})

	m.rail.On("Configured").Return(true)
	m.rail.On("CreateTransfer", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("rail timeout"))
	m.deletionRepo.On("UpdateStatus", mock.Anything, int64(5), models.DeletionStatusPendingWithdrawal).Return(nil)

	result, err := service.CloseAccount(ctx, userID, "switching platforms")

	// A failed transfer is a parked closure, not an error
	require.NoError(t, err)
	assert.Equal(t, models.DeletionStatusPendingWithdrawal, result.Status)

	m.balanceRepo.AssertNotCalled(t, "Delete")
	m.identity.AssertNotCalled(t, "DeleteIdentity")
}

func TestClosureService_CloseAccount_ZeroBalanceSkipsTransfer(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	userID := uuid.New()
	balance := &models.BalanceRecord{
		UserID:   userID,
		OpenedAt: time.Now().UTC().AddDate(0, 0, -5),
	}

	m.expectTransactions()
	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(balance, nil)
	m.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	m.deletionRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.AccountDeletion) bool {
		return d.TotalWithdrawable.IsZero() && d.TotalFees.IsZero()
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.AccountDeletion).ID = 6
	})

	m.deletionRepo.On("UpdateStatus", mock.Anything, int64(6), models.DeletionStatusProcessing).Return(nil)
	m.expectPurge(userID)
	m.identity.On("DeleteIdentity", mock.Anything, userID).Return(nil)
	m.deletionRepo.On("MarkCompleted", mock.Anything, int64(6), mock.AnythingOfType("time.Time")).Return(nil)

	result, err := service.CloseAccount(ctx, userID, "nothing left here")

	require.NoError(t, err)
	assert.Equal(t, models.DeletionStatusCompleted, result.Status)

	m.rail.AssertNotCalled(t, "Configured")
	m.rail.AssertNotCalled(t, "CreateTransfer")
	m.identity.AssertExpectations(t)
}

func TestClosureService_CloseAccount_BalanceChangedBeforePurge(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	userID := uuid.New()
	balance := &models.BalanceRecord{
		UserID:     userID,
		GrowthCash: decimal.NewFromInt(80),
		Version:    2,
		OpenedAt:   time.Now().UTC().AddDate(-1, -1, 0),
	}
	// A deposit lands while the transfer is in flight
	changed := &models.BalanceRecord{
		UserID:            userID,
		GrowthCash:        decimal.NewFromInt(25),
		PendingWithdrawal: decimal.NewFromInt(80),
		Version:           balance.Version + 1,
	}

	m.expectTransactions()
	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(balance, nil).Once()
	m.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	m.deletionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.AccountDeletion).ID = 7
	})

	m.rail.On("Configured").Return(true)
	m.rail.On("CreateTransfer", mock.Anything, mock.Anything, mock.Anything).Return("tr_900", nil)
	m.deletionRepo.On("SetTransfer", mock.Anything, int64(7), "tr_900").Return(nil)
	m.deletionRepo.On("UpdateStatus", mock.Anything, int64(7), models.DeletionStatusProcessing).Return(nil)

	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(changed, nil).Once()

	result, err := service.CloseAccount(ctx, userID, "closing up")

	// The purge aborts and the account survives intact for a retry
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrWriteConflict)
	assert.Nil(t, result)

	m.ledgerRepo.AssertNotCalled(t, "DeleteByUser")
	m.balanceRepo.AssertNotCalled(t, "Delete")
	m.identity.AssertNotCalled(t, "DeleteIdentity")
	m.deletionRepo.AssertNotCalled(t, "MarkCompleted")
}

func TestClosureService_CloseAccount_EmptyReason(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	result, err := service.CloseAccount(ctx, uuid.New(), "   ")

	require.Error(t, err)
	assert.Nil(t, result)

	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	m.deletionRepo.AssertNotCalled(t, "Create")
}

func TestClosureService_CloseAccount_UnknownUser(t *testing.T) {
	ctx := context.Background()
	service, m := newClosureServiceMocks()

	userID := uuid.New()
	m.uow.On("Begin", mock.Anything).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.balanceRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)

	result, err := service.CloseAccount(ctx, userID, "never signed up twice")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

package service

import (
	"context"
	"testing"

	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDepositServiceMocks() (DepositService, *MockUnitOfWork, *MockBalanceRepository, *MockDepositRepository, *MockLedgerEntryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockDepositRepo := new(MockDepositRepository)
	mockLedgerRepo := new(MockLedgerEntryRepository)

	mockUoW.SetRepositories(mockBalanceRepo, mockLedgerRepo, nil, nil, mockDepositRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	service := NewDepositService(mockFactory)
	return service, mockUoW, mockBalanceRepo, mockDepositRepo, mockLedgerRepo
}

func TestDepositService_Deposit_ExistingBalance(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockBalanceRepo, mockDepositRepo, mockLedgerRepo := newDepositServiceMocks()

	userID := uuid.New()
	balance := &models.BalanceRecord{
		UserID:     userID,
		GrowthCash: decimal.NewFromInt(40),
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBalanceRepo.On("GetByUserID", ctx, userID).Return(balance, nil)

	mockDepositRepo.On("Create", ctx, mock.MatchedBy(func(d *models.Deposit) bool {
		return d.UserID == userID && d.Amount.Equal(decimal.NewFromInt(60))
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Deposit).ID = 21
	})

	mockBalanceRepo.On("Update", ctx, mock.MatchedBy(func(b *models.BalanceRecord) bool {
		return b.GrowthCash.Equal(decimal.NewFromInt(100))
	})).Return(nil)

	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.EntryType == models.EntryTypeDeposit &&
			e.BalanceKind == models.BalanceKindGrowthCash &&
			e.ChangeAmount.Equal(decimal.NewFromInt(60)) &&
			*e.RelatedID == int64(21)
	})).Return(nil)

	updated, err := service.Deposit(ctx, userID, decimal.NewFromInt(60))

	require.NoError(t, err)
	assert.True(t, updated.GrowthCash.Equal(decimal.NewFromInt(100)))

	mockUoW.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
	mockDepositRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
}

func TestDepositService_Deposit_FirstDepositCreatesBalance(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, mockBalanceRepo, mockDepositRepo, mockLedgerRepo := newDepositServiceMocks()

	userID := uuid.New()
	fresh := &models.BalanceRecord{UserID: userID}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBalanceRepo.On("GetByUserID", ctx, userID).Return(nil, nil)
	mockBalanceRepo.On("Create", ctx, userID).Return(fresh, nil)

	mockDepositRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockBalanceRepo.On("Update", ctx, mock.MatchedBy(func(b *models.BalanceRecord) bool {
		return b.GrowthCash.Equal(decimal.NewFromInt(25))
	})).Return(nil)
	mockLedgerRepo.On("Record", ctx, mock.Anything).Return(nil)

	updated, err := service.Deposit(ctx, userID, decimal.NewFromInt(25))

	require.NoError(t, err)
	assert.True(t, updated.GrowthCash.Equal(decimal.NewFromInt(25)))

	mockBalanceRepo.AssertExpectations(t)
}

func TestDepositService_Deposit_NonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, _, mockDepositRepo, _ := newDepositServiceMocks()

	var validationErr *models.ValidationError

	_, err := service.Deposit(ctx, uuid.New(), decimal.Zero)
	require.Error(t, err)
	assert.ErrorAs(t, err, &validationErr)

	_, err = service.Deposit(ctx, uuid.New(), decimal.NewFromInt(-10))
	assert.Error(t, err)

	mockUoW.AssertNotCalled(t, "Begin")
	mockDepositRepo.AssertNotCalled(t, "Create")
}

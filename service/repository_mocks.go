package service

import (
	"context"
	"time"

	"sweeps/events"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.BalanceRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceRecord), args.Error(1)
}

func (m *MockBalanceRepository) Create(ctx context.Context, userID uuid.UUID) (*models.BalanceRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceRecord), args.Error(1)
}

func (m *MockBalanceRepository) Update(ctx context.Context, record *models.BalanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetAll(ctx context.Context) ([]*models.BalanceRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceRecord), args.Error(1)
}

func (m *MockBalanceRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) Settle(ctx context.Context, prediction *models.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Prediction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetAll(ctx context.Context) ([]*models.Prediction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetLatestWinTime(ctx context.Context, userID uuid.UUID, betType models.BetType) (*time.Time, error) {
	args := m.Called(ctx, userID, betType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockPredictionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status models.WithdrawalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) GetAll(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockDepositRepository is a mock implementation of DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Deposit, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deposit), args.Error(1)
}

func (m *MockDepositRepository) GetAll(ctx context.Context) ([]*models.Deposit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deposit), args.Error(1)
}

func (m *MockDepositRepository) GetLatestTime(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockDepositRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetAll(ctx context.Context) ([]*models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockDeletionRepository is a mock implementation of DeletionRepository
type MockDeletionRepository struct {
	mock.Mock
}

func (m *MockDeletionRepository) Create(ctx context.Context, deletion *models.AccountDeletion) error {
	args := m.Called(ctx, deletion)
	return args.Error(0)
}

func (m *MockDeletionRepository) GetByID(ctx context.Context, id int64) (*models.AccountDeletion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountDeletion), args.Error(1)
}

func (m *MockDeletionRepository) UpdateStatus(ctx context.Context, id int64, status models.DeletionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDeletionRepository) SetTransfer(ctx context.Context, id int64, transferID string) error {
	args := m.Called(ctx, id, transferID)
	return args.Error(0)
}

func (m *MockDeletionRepository) MarkCompleted(ctx context.Context, id int64, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// nopPublisher swallows events for tests that do not assert on them
type nopPublisher struct{}

func (nopPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository
// getters return the configured mocks directly so tests only set
// expectations on Begin, Commit and Rollback.
type MockUnitOfWork struct {
	mock.Mock
	balanceRepo      BalanceRepository
	ledgerRepo       LedgerEntryRepository
	predictionRepo   PredictionRepository
	withdrawalRepo   WithdrawalRepository
	depositRepo      DepositRepository
	subscriptionRepo SubscriptionRepository
	deletionRepo     DeletionRepository
	eventBus         EventPublisher
}

// SetRepositories configures the mocks the getters hand out. Nil
// arguments are fine for repositories a test never touches.
func (m *MockUnitOfWork) SetRepositories(
	balanceRepo BalanceRepository,
	ledgerRepo LedgerEntryRepository,
	predictionRepo PredictionRepository,
	withdrawalRepo WithdrawalRepository,
	depositRepo DepositRepository,
	subscriptionRepo SubscriptionRepository,
	deletionRepo DeletionRepository,
) {
	m.balanceRepo = balanceRepo
	m.ledgerRepo = ledgerRepo
	m.predictionRepo = predictionRepo
	m.withdrawalRepo = withdrawalRepo
	m.depositRepo = depositRepo
	m.subscriptionRepo = subscriptionRepo
	m.deletionRepo = deletionRepo
}

// SetEventBus overrides the default no-op publisher
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) BalanceRepository() BalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) LedgerEntryRepository() LedgerEntryRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) PredictionRepository() PredictionRepository {
	return m.predictionRepo
}

func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository {
	return m.withdrawalRepo
}

func (m *MockUnitOfWork) DepositRepository() DepositRepository {
	return m.depositRepo
}

func (m *MockUnitOfWork) SubscriptionRepository() SubscriptionRepository {
	return m.subscriptionRepo
}

func (m *MockUnitOfWork) DeletionRepository() DeletionRepository {
	return m.deletionRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return nopPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockIdentityProvider is a mock implementation of IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) DeleteIdentity(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPaymentRail is a mock implementation of PaymentRail
type MockPaymentRail struct {
	mock.Mock
}

func (m *MockPaymentRail) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPaymentRail) CreateTransfer(ctx context.Context, amount decimal.Decimal, destination string) (string, error) {
	args := m.Called(ctx, amount, destination)
	return args.String(0), args.Error(1)
}

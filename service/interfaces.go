package service

import (
	"context"
	"time"

	"sweeps/events"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceRepository defines the interface for balance record data access
type BalanceRepository interface {
	// GetByUserID retrieves a user's balance record
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.BalanceRecord, error)

	// Create creates a new zeroed balance record for a user
	Create(ctx context.Context, userID uuid.UUID) (*models.BalanceRecord, error)

	// Update writes the record if its version still matches, bumping the
	// version. Returns models.ErrWriteConflict on a lost race.
	Update(ctx context.Context, record *models.BalanceRecord) error

	// GetAll returns every balance record (admin aggregation)
	GetAll(ctx context.Context) ([]*models.BalanceRecord, error)

	// Delete removes a user's balance record
	Delete(ctx context.Context, userID uuid.UUID) error
}

// LedgerEntryRepository defines the interface for the balance audit trail
type LedgerEntryRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// GetByUser returns ledger entries for a specific user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.LedgerEntry, error)

	// DeleteByUser removes all entries for a user (account closure)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	// Create creates a new pending prediction
	Create(ctx context.Context, prediction *models.Prediction) error

	// GetByID retrieves a prediction by its ID
	GetByID(ctx context.Context, id int64) (*models.Prediction, error)

	// Settle records the one-time result transition of a pending prediction
	Settle(ctx context.Context, prediction *models.Prediction) error

	// GetByUser returns predictions for a specific user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Prediction, error)

	// GetAll returns all predictions (admin aggregation)
	GetAll(ctx context.Context) ([]*models.Prediction, error)

	// GetLatestWinTime returns when the user last won a bet of the given
	// type, or nil if never
	GetLatestWinTime(ctx context.Context, userID uuid.UUID, betType models.BetType) (*time.Time, error)

	// DeleteByUser removes all predictions for a user (account closure)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// WithdrawalRepository defines the interface for withdrawal request data access
type WithdrawalRepository interface {
	// Create creates a new withdrawal request
	Create(ctx context.Context, request *models.WithdrawalRequest) error

	// GetByID retrieves a withdrawal request by its ID
	GetByID(ctx context.Context, id int64) (*models.WithdrawalRequest, error)

	// UpdateStatus advances a request's status
	UpdateStatus(ctx context.Context, id int64, status models.WithdrawalStatus) error

	// GetByUser returns withdrawal requests for a specific user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.WithdrawalRequest, error)

	// GetAll returns all withdrawal requests (admin aggregation)
	GetAll(ctx context.Context) ([]*models.WithdrawalRequest, error)

	// DeleteByUser removes all requests for a user (account closure)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// DepositRepository defines the interface for deposit data access
type DepositRepository interface {
	// Create creates a new deposit record
	Create(ctx context.Context, deposit *models.Deposit) error

	// GetByUser returns deposits for a specific user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Deposit, error)

	// GetAll returns all deposits (admin aggregation)
	GetAll(ctx context.Context) ([]*models.Deposit, error)

	// GetLatestTime returns when the user last deposited, or nil if never
	GetLatestTime(ctx context.Context, userID uuid.UUID) (*time.Time, error)

	// DeleteByUser removes all deposits for a user (account closure)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	// GetByUserID retrieves a user's subscription, nil if none exists
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)

	// Upsert creates or replaces a user's subscription row
	Upsert(ctx context.Context, subscription *models.Subscription) error

	// GetAll returns all subscriptions (admin aggregation)
	GetAll(ctx context.Context) ([]*models.Subscription, error)

	// Delete removes a user's subscription (account closure)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// DeletionRepository defines the interface for account deletion records
type DeletionRepository interface {
	// Create creates a new deletion record
	Create(ctx context.Context, deletion *models.AccountDeletion) error

	// GetByID retrieves a deletion record by its ID
	GetByID(ctx context.Context, id int64) (*models.AccountDeletion, error)

	// UpdateStatus advances the deletion record's status
	UpdateStatus(ctx context.Context, id int64, status models.DeletionStatus) error

	// SetTransfer records the payment rail transfer id
	SetTransfer(ctx context.Context, id int64, transferID string) error

	// MarkCompleted sets the terminal status and completion timestamp
	MarkCompleted(ctx context.Context, id int64, completedAt time.Time) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	BalanceRepository() BalanceRepository
	LedgerEntryRepository() LedgerEntryRepository
	PredictionRepository() PredictionRepository
	WithdrawalRepository() WithdrawalRepository
	DepositRepository() DepositRepository
	SubscriptionRepository() SubscriptionRepository
	DeletionRepository() DeletionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}

// PredictionService defines the interface for prediction operations
type PredictionService interface {
	// PlacePrediction validates and places a pending prediction,
	// deducting the stake from the appropriate balance
	PlacePrediction(ctx context.Context, userID uuid.UUID, betType models.BetType, stake decimal.Decimal, odds string, selections []string) (*models.Prediction, error)

	// SettlePrediction applies the oracle's result to a pending
	// prediction and allocates the balance deltas
	SettlePrediction(ctx context.Context, predictionID int64, result models.PredictionResult) (*models.SettlementResult, error)

	// GetUserPredictions returns a user's recent predictions
	GetUserPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Prediction, error)
}

// WithdrawalService defines the interface for withdrawal operations
type WithdrawalService interface {
	// PreviewFee computes the fee breakdown for a prospective withdrawal
	// using the same policy the commit path uses
	PreviewFee(ctx context.Context, userID uuid.UUID, kind models.BalanceKind, amount decimal.Decimal) (*FeeBreakdown, error)

	// RequestWithdrawal gates, reserves and records a withdrawal request
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, kind models.BalanceKind, amount decimal.Decimal) (*models.WithdrawalRequest, error)

	// ResolveRequest moves a pending request to approved, rejected or
	// completed. A rejection returns the reserved amount.
	ResolveRequest(ctx context.Context, requestID int64, status models.WithdrawalStatus) (*models.WithdrawalRequest, error)
}

// ClosureService defines the interface for account closure
type ClosureService interface {
	// CloseAccount runs the full closure settlement for a user
	CloseAccount(ctx context.Context, userID uuid.UUID, reason string) (*models.ClosureResult, error)
}

// SubscriptionService defines the interface for subscription operations
type SubscriptionService interface {
	// GetTier returns the user's effective tier right now
	GetTier(ctx context.Context, userID uuid.UUID) (models.SubscriptionTier, error)

	// Subscribe upgrades a user to the annual tier for one year
	Subscribe(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)

	// GrantDueBonuses credits the periodic bonus bet to every active
	// annual subscriber whose grant interval has elapsed
	GrantDueBonuses(ctx context.Context) (int, error)
}

// DepositService defines the interface for simulated deposits
type DepositService interface {
	// Deposit credits growth cash and records the deposit
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.BalanceRecord, error)
}

// MetricsService defines the interface for admin financial reporting
type MetricsService interface {
	// GetPlatformMetrics folds all record sets into platform KPIs
	GetPlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error)
}

// IdentityProvider is the external auth service consumed during closure
type IdentityProvider interface {
	// DeleteIdentity removes the authentication identity for a user
	DeleteIdentity(ctx context.Context, userID uuid.UUID) error
}

// PaymentRail is the optional external transfer collaborator. An
// unconfigured rail is a valid state, never an error.
type PaymentRail interface {
	// Configured reports whether transfers can be issued
	Configured() bool

	// CreateTransfer issues a payout and returns the transfer id
	CreateTransfer(ctx context.Context, amount decimal.Decimal, destination string) (string, error)
}

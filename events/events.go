package events

import (
	"context"
	"sync"

	"sweeps/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange       EventType = "balance_change"
	EventTypePredictionSettled   EventType = "prediction_settled"
	EventTypeWithdrawalRequested EventType = "withdrawal_requested"
	EventTypeBonusGranted        EventType = "bonus_granted"
	EventTypeAccountClosed       EventType = "account_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID       uuid.UUID
	BalanceKind  models.BalanceKind
	OldBalance   decimal.Decimal
	NewBalance   decimal.Decimal
	EntryType    models.EntryType
	ChangeAmount decimal.Decimal
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// PredictionSettledEvent represents a prediction that was settled
type PredictionSettledEvent struct {
	UserID       uuid.UUID
	PredictionID int64
	BetType      models.BetType
	Result       models.PredictionResult
	Stake        decimal.Decimal
	Winnings     decimal.Decimal
	PlatformFee  decimal.Decimal
}

func (e PredictionSettledEvent) Type() EventType {
	return EventTypePredictionSettled
}

// WithdrawalRequestedEvent represents a new withdrawal request
type WithdrawalRequestedEvent struct {
	UserID       uuid.UUID
	WithdrawalID int64
	BalanceKind  models.BalanceKind
	Amount       decimal.Decimal
	NetAmount    decimal.Decimal
}

func (e WithdrawalRequestedEvent) Type() EventType {
	return EventTypeWithdrawalRequested
}

// BonusGrantedEvent represents a periodic bonus bet grant
type BonusGrantedEvent struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

func (e BonusGrantedEvent) Type() EventType {
	return EventTypeBonusGranted
}

// AccountClosedEvent represents a completed account closure
type AccountClosedEvent struct {
	UserID           uuid.UUID
	DeletionID       int64
	WithdrawalAmount decimal.Decimal
	FeesApplied      decimal.Decimal
	Status           models.DeletionStatus
}

func (e AccountClosedEvent) Type() EventType {
	return EventTypeAccountClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus holding pending events coupled to the unit
// of work. Flushes to the underlying event bus after commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events are processed independently of the transaction lifecycle,
	// so emission uses a fresh context rather than the request's
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback to drop pending events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

package service

import (
	"context"
	"fmt"

	"sweeps/events"
	"sweeps/models"
)

// RecordBalanceChange records a ledger entry and emits the matching
// balance change event. This is the single entry point for all balance
// changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	if err := uow.LedgerEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	// Emitted after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       entry.UserID,
		BalanceKind:  entry.BalanceKind,
		OldBalance:   entry.BalanceBefore,
		NewBalance:   entry.BalanceAfter,
		EntryType:    entry.EntryType,
		ChangeAmount: entry.ChangeAmount,
	})

	return nil
}

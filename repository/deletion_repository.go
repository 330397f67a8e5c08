package repository

import (
	"context"
	"fmt"
	"time"

	"sweeps/database"
	"sweeps/models"

	"github.com/jackc/pgx/v5"
)

// DeletionRepository implements the service.DeletionRepository interface
type DeletionRepository struct {
	q queryable
}

// NewDeletionRepository creates a new account deletion repository
func NewDeletionRepository(db *database.DB) *DeletionRepository {
	return &DeletionRepository{q: db.Pool}
}

func newDeletionRepositoryWithTx(tx queryable) *DeletionRepository {
	return &DeletionRepository{q: tx}
}

const deletionColumns = `id, user_id, reason, spendable_snapshot, portfolio_snapshot, growth_cash_snapshot, total_fees, total_withdrawable, transfer_id, status, completed_at, created_at`

func scanDeletion(row pgx.Row) (*models.AccountDeletion, error) {
	var d models.AccountDeletion
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Reason,
		&d.SpendableSnapshot,
		&d.PortfolioSnapshot,
		&d.GrowthCashSnapshot,
		&d.TotalFees,
		&d.TotalWithdrawable,
		&d.TransferID,
		&d.Status,
		&d.CompletedAt,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create creates a new deletion record
func (r *DeletionRepository) Create(ctx context.Context, deletion *models.AccountDeletion) error {
	query := `
		INSERT INTO account_deletions (user_id, reason, spendable_snapshot, portfolio_snapshot, growth_cash_snapshot, total_fees, total_withdrawable, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		deletion.UserID,
		deletion.Reason,
		deletion.SpendableSnapshot,
		deletion.PortfolioSnapshot,
		deletion.GrowthCashSnapshot,
		deletion.TotalFees,
		deletion.TotalWithdrawable,
		deletion.Status,
	).Scan(&deletion.ID, &deletion.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create deletion record for user %s: %w", deletion.UserID, err)
	}
	return nil
}

// GetByID retrieves a deletion record by its ID
func (r *DeletionRepository) GetByID(ctx context.Context, id int64) (*models.AccountDeletion, error) {
	query := `SELECT ` + deletionColumns + ` FROM account_deletions WHERE id = $1`

	deletion, err := scanDeletion(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deletion record %d: %w", id, err)
	}
	return deletion, nil
}

// UpdateStatus advances the deletion record's status
func (r *DeletionRepository) UpdateStatus(ctx context.Context, id int64, status models.DeletionStatus) error {
	result, err := r.q.Exec(ctx, `UPDATE account_deletions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update deletion record %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetTransfer records the payment rail transfer id
func (r *DeletionRepository) SetTransfer(ctx context.Context, id int64, transferID string) error {
	result, err := r.q.Exec(ctx, `UPDATE account_deletions SET transfer_id = $1 WHERE id = $2`, transferID, id)
	if err != nil {
		return fmt.Errorf("failed to set transfer on deletion record %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkCompleted sets the terminal status and completion timestamp
func (r *DeletionRepository) MarkCompleted(ctx context.Context, id int64, completedAt time.Time) error {
	query := `UPDATE account_deletions SET status = $1, completed_at = $2 WHERE id = $3`

	result, err := r.q.Exec(ctx, query, models.DeletionStatusCompleted, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to complete deletion record %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

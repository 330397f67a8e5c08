package repository

import (
	"context"
	"fmt"
	"time"

	"sweeps/database"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the service.DepositRepository interface
type DepositRepository struct {
	q queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create creates a new deposit record
func (r *DepositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	query := `
		INSERT INTO deposits (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, deposit.UserID, deposit.Amount).Scan(&deposit.ID, &deposit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit for user %s: %w", deposit.UserID, err)
	}
	return nil
}

// GetByUser returns deposits for a specific user, newest first
func (r *DepositRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Deposit, error) {
	query := `SELECT id, user_id, amount, created_at FROM deposits WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectDeposits(rows)
}

// GetAll returns all deposits
func (r *DepositRepository) GetAll(ctx context.Context) ([]*models.Deposit, error) {
	query := `SELECT id, user_id, amount, created_at FROM deposits ORDER BY created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposits: %w", err)
	}
	defer rows.Close()

	return collectDeposits(rows)
}

func collectDeposits(rows pgx.Rows) ([]*models.Deposit, error) {
	var deposits []*models.Deposit
	for rows.Next() {
		var deposit models.Deposit
		if err := rows.Scan(&deposit.ID, &deposit.UserID, &deposit.Amount, &deposit.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, &deposit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deposits: %w", err)
	}
	return deposits, nil
}

// GetLatestTime returns when the user last deposited, or nil if never
func (r *DepositRepository) GetLatestTime(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	query := `SELECT MAX(created_at) FROM deposits WHERE user_id = $1`

	var latest *time.Time
	err := r.q.QueryRow(ctx, query, userID).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest deposit for user %s: %w", userID, err)
	}
	return latest, nil
}

// DeleteByUser removes all deposits for a user
func (r *DepositRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM deposits WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete deposits for user %s: %w", userID, err)
	}
	return nil
}

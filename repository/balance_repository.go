package repository

import (
	"context"
	"fmt"

	"sweeps/database"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the service.BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

const balanceColumns = `user_id, spendable, portfolio, growth_cash, pending_withdrawal, bonus_bets, version, opened_at, created_at, updated_at`

func scanBalance(row pgx.Row) (*models.BalanceRecord, error) {
	var b models.BalanceRecord
	err := row.Scan(
		&b.UserID,
		&b.Spendable,
		&b.Portfolio,
		&b.GrowthCash,
		&b.PendingWithdrawal,
		&b.BonusBets,
		&b.Version,
		&b.OpenedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByUserID retrieves a user's balance record
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.BalanceRecord, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1`

	balance, err := scanBalance(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %s: %w", userID, err)
	}
	return balance, nil
}

// Create creates a new zeroed balance record for a user
func (r *BalanceRepository) Create(ctx context.Context, userID uuid.UUID) (*models.BalanceRecord, error) {
	query := `
		INSERT INTO balances (user_id)
		VALUES ($1)
		RETURNING ` + balanceColumns

	balance, err := scanBalance(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to create balance for user %s: %w", userID, err)
	}
	return balance, nil
}

// Update writes the record only if its version still matches, bumping
// the version. A lost race returns models.ErrWriteConflict so the
// caller retries the whole operation instead of merging partial state.
func (r *BalanceRepository) Update(ctx context.Context, record *models.BalanceRecord) error {
	query := `
		UPDATE balances
		SET spendable = $1,
		    portfolio = $2,
		    growth_cash = $3,
		    pending_withdrawal = $4,
		    bonus_bets = $5,
		    version = version + 1,
		    updated_at = NOW()
		WHERE user_id = $6 AND version = $7
	`

	result, err := r.q.Exec(ctx, query,
		record.Spendable,
		record.Portfolio,
		record.GrowthCash,
		record.PendingWithdrawal,
		record.BonusBets,
		record.UserID,
		record.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %s: %w", record.UserID, err)
	}

	if result.RowsAffected() == 0 {
		// Either the row is gone or another writer got there first
		existing, err := r.GetByUserID(ctx, record.UserID)
		if err != nil {
			return fmt.Errorf("failed to check balance record: %w", err)
		}
		if existing == nil {
			return models.ErrNotFound
		}
		return models.ErrWriteConflict
	}

	record.Version++
	return nil
}

// GetAll returns every balance record
func (r *BalanceRepository) GetAll(ctx context.Context) ([]*models.BalanceRecord, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances ORDER BY created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance records: %w", err)
	}
	defer rows.Close()

	var balances []*models.BalanceRecord
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance record: %w", err)
		}
		balances = append(balances, balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance records: %w", err)
	}
	return balances, nil
}

// Delete removes a user's balance record
func (r *BalanceRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM balances WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete balance for user %s: %w", userID, err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"sweeps/database"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WithdrawalRepository implements the service.WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

const withdrawalColumns = `id, user_id, balance_kind, amount, fee_rate, fee_amount, net_amount, status, created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.BalanceKind,
		&w.Amount,
		&w.FeeRate,
		&w.FeeAmount,
		&w.NetAmount,
		&w.Status,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create creates a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	query := `
		INSERT INTO withdrawal_requests (user_id, balance_kind, amount, fee_rate, fee_amount, net_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		request.UserID,
		request.BalanceKind,
		request.Amount,
		request.FeeRate,
		request.FeeAmount,
		request.NetAmount,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create withdrawal request for user %s: %w", request.UserID, err)
	}
	return nil
}

// GetByID retrieves a withdrawal request by its ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`

	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request %d: %w", id, err)
	}
	return request, nil
}

// UpdateStatus advances a request's status
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status models.WithdrawalStatus) error {
	query := `UPDATE withdrawal_requests SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal request %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetByUser returns withdrawal requests for a specific user, newest first
func (r *WithdrawalRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal requests for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// GetAll returns all withdrawal requests
func (r *WithdrawalRepository) GetAll(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests ORDER BY created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal requests: %w", err)
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

func collectWithdrawals(rows pgx.Rows) ([]*models.WithdrawalRequest, error) {
	var requests []*models.WithdrawalRequest
	for rows.Next() {
		request, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawal requests: %w", err)
	}
	return requests, nil
}

// DeleteByUser removes all requests for a user
func (r *WithdrawalRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM withdrawal_requests WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete withdrawal requests for user %s: %w", userID, err)
	}
	return nil
}

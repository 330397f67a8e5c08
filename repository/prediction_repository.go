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

// PredictionRepository implements the service.PredictionRepository interface
type PredictionRepository struct {
	q queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *database.DB) *PredictionRepository {
	return &PredictionRepository{q: db.Pool}
}

func newPredictionRepositoryWithTx(tx queryable) *PredictionRepository {
	return &PredictionRepository{q: tx}
}

const predictionColumns = `id, user_id, stake, bet_type, selections, odds, result, winnings, platform_fee, settled_at, created_at`

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var p models.Prediction
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Stake,
		&p.BetType,
		&p.Selections,
		&p.Odds,
		&p.Result,
		&p.Winnings,
		&p.PlatformFee,
		&p.SettledAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new pending prediction
func (r *PredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (user_id, stake, bet_type, selections, odds, result, winnings, platform_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		prediction.UserID,
		prediction.Stake,
		prediction.BetType,
		prediction.Selections,
		prediction.Odds,
		prediction.Result,
		prediction.Winnings,
		prediction.PlatformFee,
	).Scan(&prediction.ID, &prediction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create prediction for user %s: %w", prediction.UserID, err)
	}
	return nil
}

// GetByID retrieves a prediction by its ID
func (r *PredictionRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	prediction, err := scanPrediction(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction %d: %w", id, err)
	}
	return prediction, nil
}

// Settle records the one-time result transition of a pending prediction.
// The guard on result = 'pending' makes settlement idempotent at the
// store level.
func (r *PredictionRepository) Settle(ctx context.Context, prediction *models.Prediction) error {
	query := `
		UPDATE predictions
		SET result = $1, winnings = $2, platform_fee = $3, settled_at = $4
		WHERE id = $5 AND result = 'pending'
	`

	result, err := r.q.Exec(ctx, query,
		prediction.Result,
		prediction.Winnings,
		prediction.PlatformFee,
		prediction.SettledAt,
		prediction.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to settle prediction %d: %w", prediction.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("prediction %d is not pending", prediction.ID)
	}
	return nil
}

// GetByUser returns predictions for a specific user, newest first
func (r *PredictionRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetAll returns all predictions
func (r *PredictionRepository) GetAll(ctx context.Context) ([]*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func collectPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return predictions, nil
}

// GetLatestWinTime returns when the user last won a bet of the given
// type, or nil if never
func (r *PredictionRepository) GetLatestWinTime(ctx context.Context, userID uuid.UUID, betType models.BetType) (*time.Time, error) {
	query := `
		SELECT MAX(settled_at)
		FROM predictions
		WHERE user_id = $1 AND bet_type = $2 AND result = 'win'
	`

	var latest *time.Time
	err := r.q.QueryRow(ctx, query, userID, betType).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest win for user %s: %w", userID, err)
	}
	return latest, nil
}

// DeleteByUser removes all predictions for a user
func (r *PredictionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM predictions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete predictions for user %s: %w", userID, err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"sweeps/database"
	"sweeps/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SubscriptionRepository implements the service.SubscriptionRepository interface
type SubscriptionRepository struct {
	q queryable
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *database.DB) *SubscriptionRepository {
	return &SubscriptionRepository{q: db.Pool}
}

func newSubscriptionRepositoryWithTx(tx queryable) *SubscriptionRepository {
	return &SubscriptionRepository{q: tx}
}

const subscriptionColumns = `user_id, tier, subscribed_at, expires_at, last_bonus_grant_at, created_at, updated_at`

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(
		&s.UserID,
		&s.Tier,
		&s.SubscribedAt,
		&s.ExpiresAt,
		&s.LastBonusGrantAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByUserID retrieves a user's subscription, nil if none exists
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`

	subscription, err := scanSubscription(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription for user %s: %w", userID, err)
	}
	return subscription, nil
}

// Upsert creates or replaces a user's subscription row
func (r *SubscriptionRepository) Upsert(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, tier, subscribed_at, expires_at, last_bonus_grant_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			subscribed_at = EXCLUDED.subscribed_at,
			expires_at = EXCLUDED.expires_at,
			last_bonus_grant_at = EXCLUDED.last_bonus_grant_at,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		subscription.UserID,
		subscription.Tier,
		subscription.SubscribedAt,
		subscription.ExpiresAt,
		subscription.LastBonusGrantAt,
	).Scan(&subscription.CreatedAt, &subscription.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s: %w", subscription.UserID, err)
	}
	return nil
}

// GetAll returns all subscriptions
func (r *SubscriptionRepository) GetAll(ctx context.Context) ([]*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return subscriptions, nil
}

// Delete removes a user's subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.q.Exec(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription for user %s: %w", userID, err)
	}
	return nil
}

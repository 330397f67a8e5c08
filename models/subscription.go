package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier determines growth cash withdrawal rules and bonus
// bet entitlement
type SubscriptionTier string

const (
	TierFree   SubscriptionTier = "free"
	TierAnnual SubscriptionTier = "annual"
)

// Subscription is a user's current subscription state
type Subscription struct {
	UserID           uuid.UUID        `db:"user_id"`
	Tier             SubscriptionTier `db:"tier"`
	SubscribedAt     *time.Time       `db:"subscribed_at"`
	ExpiresAt        *time.Time       `db:"expires_at"`
	LastBonusGrantAt *time.Time       `db:"last_bonus_grant_at"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// ActiveTier returns the effective tier at the given time. An expired
// annual subscription falls back to free.
func (s *Subscription) ActiveTier(now time.Time) SubscriptionTier {
	if s == nil {
		return TierFree
	}
	if s.Tier == TierAnnual && (s.ExpiresAt == nil || s.ExpiresAt.After(now)) {
		return TierAnnual
	}
	return TierFree
}

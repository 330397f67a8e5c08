package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit is a simulated credit of growth cash
type Deposit struct {
	ID        int64           `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

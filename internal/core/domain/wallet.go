package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is the custodial balance record owned by one user. It is created
// lazily on first access and never deleted while the user exists. Balance is
// a cached materialization of the transaction log: at all times
// balance == sum of signed transaction amounts for this wallet.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"` // In smallest unit (VND)
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxBankAccountsPerOwner caps verified payout destinations per user.
const MaxBankAccountsPerOwner = 2

// BankAccount is a verified payout destination for withdrawals. At most two
// per owner, at most one with IsDefault set.
type BankAccount struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	BankCode      string    `json:"bank_code"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	HolderName    string    `json:"holder_name"`
	Branch        *string   `json:"branch,omitempty"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

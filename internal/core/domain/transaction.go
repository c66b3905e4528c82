package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypePayment  TransactionType = "PAYMENT"
	TransactionTypeRefund   TransactionType = "REFUND"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is an immutable, append-only ledger entry. Amount is signed:
// positive for credits, negative for debits. BalanceAfter snapshots the
// wallet balance resulting from this entry; for entry n it must equal entry
// n-1's BalanceAfter plus this entry's Amount, so the log is auditable
// without the wallet row. Once Status is SUCCESS the row is never mutated.
type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	WalletID     uuid.UUID         `json:"wallet_id"`
	Type         TransactionType   `json:"type"`
	Amount       int64             `json:"amount"`
	BalanceAfter int64             `json:"balance_after"`
	Description  string            `json:"description"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess || t.Status == TransactionStatusFailed
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestType represents the direction of a wallet request.
type RequestType string

const (
	RequestTypeDeposit  RequestType = "DEPOSIT"
	RequestTypeWithdraw RequestType = "WITHDRAW"
)

// RequestStatus represents the lifecycle state of a wallet request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// WalletRequest is a user-initiated deposit/withdraw intent awaiting an
// operator decision. It transitions exactly once, to APPROVED or REJECTED,
// and is immutable thereafter. BankAccountID is mandatory for withdrawals
// and references a payout destination owned by the requester.
// PaymentReference ("NAP-<id>") is set for deposits so the operator can match
// the incoming bank transfer.
type WalletRequest struct {
	ID               uuid.UUID     `json:"id"`
	WalletID         uuid.UUID     `json:"wallet_id"`
	UserID           uuid.UUID     `json:"user_id"`
	Type             RequestType   `json:"type"`
	Amount           int64         `json:"amount"`
	BankAccountID    *uuid.UUID    `json:"bank_account_id,omitempty"`
	Description      string        `json:"description"`
	Status           RequestStatus `json:"status"`
	RejectionReason  *string       `json:"rejection_reason,omitempty"`
	PaymentReference *string       `json:"payment_reference,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	ResolvedAt       *time.Time    `json:"resolved_at,omitempty"`
}

// IsPending returns true if the request still awaits an operator decision.
func (r *WalletRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

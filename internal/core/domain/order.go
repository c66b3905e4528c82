package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the order lifecycle states this core participates
// in. Pre-completion fulfillment is owned by the order subsystem; the wallet
// core only drives the PENDING_COMPLETION gate.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusProcessing        OrderStatus = "PROCESSING"
	OrderStatusShipped           OrderStatus = "SHIPPED"
	OrderStatusPendingCompletion OrderStatus = "PENDING_COMPLETION"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// Order is the completion-relevant slice of an order. The seller's wallet is
// credited TotalAmount exactly once, when an operator approves completion.
// CompletionApprovedAt doubles as the never-credit-twice guard: an order that
// has ever been approved keeps the stamp forever.
type Order struct {
	ID                       uuid.UUID   `json:"id"`
	SellerID                 uuid.UUID   `json:"seller_id"`
	TotalAmount              int64       `json:"total_amount"`
	Status                   OrderStatus `json:"status"`
	CompletionRequestedAt    *time.Time  `json:"completion_requested_at,omitempty"`
	CompletionApprovedAt     *time.Time  `json:"completion_approved_at,omitempty"`
	CompletionRejectedAt     *time.Time  `json:"completion_rejected_at,omitempty"`
	CompletionRejectionReason *string    `json:"completion_rejection_reason,omitempty"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
}

// CanRequestCompletion returns true if the fulfilling party may assert
// delivery, entering the completion gate. SHIPPED covers both first delivery
// and redelivery after a rejected completion.
func (o *Order) CanRequestCompletion() bool {
	return o.Status == OrderStatusShipped
}

// WasApproved returns true if the order has ever passed the completion gate.
func (o *Order) WasApproved() bool {
	return o.CompletionApprovedAt != nil
}

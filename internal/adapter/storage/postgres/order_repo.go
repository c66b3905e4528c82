package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository. It deliberately reads and
// writes only the completion-relevant slice of the orders table; the rest of
// the order lifecycle belongs to the fulfillment subsystem.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, seller_id, total_amount, status, completion_requested_at,
		completion_approved_at, completion_rejected_at, completion_rejection_reason,
		created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(
		&o.ID, &o.SellerID, &o.TotalAmount, &o.Status, &o.CompletionRequestedAt,
		&o.CompletionApprovedAt, &o.CompletionRejectedAt, &o.CompletionRejectionReason,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// GetByID fetches an order by UUID (non-locking read).
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return o, nil
}

// GetByIDForUpdate fetches an order with pessimistic locking so concurrent
// completion decisions serialize. This MUST be called within a transaction.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	o, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// UpdateCompletion writes the status and completion fields within a database
// transaction. Other order columns are never touched from this core.
func (r *OrderRepo) UpdateCompletion(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	query := `UPDATE orders
		SET status = $1, completion_requested_at = $2, completion_approved_at = $3,
			completion_rejected_at = $4, completion_rejection_reason = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := tx.Exec(ctx, query,
		o.Status, o.CompletionRequestedAt, o.CompletionApprovedAt,
		o.CompletionRejectedAt, o.CompletionRejectionReason, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %s", o.ID)
	}
	return nil
}

// CountPendingCompletion counts orders awaiting the operator gate.
func (r *OrderRepo) CountPendingCompletion(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = 'PENDING_COMPLETION'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending completions: %w", err)
	}
	return count, nil
}

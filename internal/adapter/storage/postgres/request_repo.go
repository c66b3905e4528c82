package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RequestRepo implements ports.RequestRepository.
type RequestRepo struct {
	pool Pool
}

// NewRequestRepo creates a new RequestRepo.
func NewRequestRepo(pool Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

const requestColumns = `id, wallet_id, user_id, type, amount, bank_account_id,
		description, status, rejection_reason, payment_reference, created_at, resolved_at`

func scanRequest(row pgx.Row) (*domain.WalletRequest, error) {
	r := &domain.WalletRequest{}
	err := row.Scan(
		&r.ID, &r.WalletID, &r.UserID, &r.Type, &r.Amount, &r.BankAccountID,
		&r.Description, &r.Status, &r.RejectionReason, &r.PaymentReference,
		&r.CreatedAt, &r.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// Create inserts a new wallet request.
func (r *RequestRepo) Create(ctx context.Context, req *domain.WalletRequest) error {
	query := `INSERT INTO wallet_requests (id, wallet_id, user_id, type, amount, bank_account_id,
		description, status, rejection_reason, payment_reference, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.WalletID, req.UserID, req.Type, req.Amount, req.BankAccountID,
		req.Description, req.Status, req.RejectionReason, req.PaymentReference,
		req.CreatedAt, req.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet request: %w", err)
	}
	return nil
}

// GetByID fetches a request by UUID (non-locking read).
func (r *RequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM wallet_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get request by id: %w", err)
	}
	return req, nil
}

// GetByIDForUpdate fetches a request with pessimistic locking so concurrent
// resolutions serialize; the loser observes the terminal status.
// This MUST be called within a transaction.
func (r *RequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM wallet_requests WHERE id = $1 FOR UPDATE`

	req, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get request for update: %w", err)
	}
	return req, nil
}

// ListByUser fetches a user's requests, newest first, paginated.
func (r *RequestRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.WalletRequest, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_requests WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + requestColumns + ` FROM wallet_requests WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var items []domain.WalletRequest
	for rows.Next() {
		var req domain.WalletRequest
		if err := rows.Scan(
			&req.ID, &req.WalletID, &req.UserID, &req.Type, &req.Amount, &req.BankAccountID,
			&req.Description, &req.Status, &req.RejectionReason, &req.PaymentReference,
			&req.CreatedAt, &req.ResolvedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}
		items = append(items, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate requests: %w", err)
	}

	return items, total, nil
}

// Resolve writes the terminal status within a database transaction. The
// WHERE guard on status makes the transition single-shot even if the caller
// skipped the row lock.
func (r *RequestRepo) Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus, reason *string, resolvedAt time.Time) error {
	query := `UPDATE wallet_requests
		SET status = $1, rejection_reason = $2, resolved_at = $3
		WHERE id = $4 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, status, reason, resolvedAt, id)
	if err != nil {
		return fmt.Errorf("resolve request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request not pending: %s", id)
	}
	return nil
}

// CountPending counts requests awaiting an operator decision.
func (r *RequestRepo) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_requests WHERE status = 'PENDING'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending requests: %w", err)
	}
	return count, nil
}

// HasPendingForBankAccount reports whether any pending withdrawal still
// references the given payout destination.
func (r *RequestRepo) HasPendingForBankAccount(ctx context.Context, bankAccountID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wallet_requests
		WHERE bank_account_id = $1 AND status = 'PENDING')`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, bankAccountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending for bank account: %w", err)
	}
	return exists, nil
}

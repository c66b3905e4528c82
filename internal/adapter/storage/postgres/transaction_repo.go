package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction. There is no
// update counterpart: entries are immutable once committed.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO wallet_transactions (id, wallet_id, type, amount, balance_after, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Type, t.Amount, t.BalanceAfter,
		t.Description, t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, wallet_id, type, amount, balance_after, description, status, created_at
		FROM wallet_transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.BalanceAfter,
		&t.Description, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// ListByWallet fetches a wallet's ledger entries, newest first, paginated.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`, walletID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `SELECT id, wallet_id, type, amount, balance_after, description, status, created_at
		FROM wallet_transactions WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, walletID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var items []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.BalanceAfter,
			&t.Description, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}

	return items, total, nil
}

// SumByWallet recomputes a wallet's balance from the successful entries of
// its log. Reconciliation tooling compares this against the cached balance.
func (r *TransactionRepo) SumByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
		WHERE wallet_id = $1 AND status = 'SUCCESS'`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}

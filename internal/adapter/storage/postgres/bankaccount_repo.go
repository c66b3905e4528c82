package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BankAccountRepo implements ports.BankAccountRepository.
type BankAccountRepo struct {
	pool Pool
}

// NewBankAccountRepo creates a new BankAccountRepo.
func NewBankAccountRepo(pool Pool) *BankAccountRepo {
	return &BankAccountRepo{pool: pool}
}

const bankAccountColumns = `id, owner_id, bank_code, bank_name, account_number,
		holder_name, branch, is_default, created_at, updated_at`

// LockOwner takes a transaction-scoped advisory lock on the owner. Row locks
// cannot serialize concurrent inserts for the same owner; the advisory lock
// keeps the two-accounts and single-default invariants under concurrency.
func (r *BankAccountRepo) LockOwner(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ownerID.String())
	if err != nil {
		return fmt.Errorf("lock bank account owner: %w", err)
	}
	return nil
}

// Create inserts a new bank account within a database transaction.
func (r *BankAccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.BankAccount) error {
	query := `INSERT INTO bank_accounts (id, owner_id, bank_code, bank_name, account_number,
		holder_name, branch, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		a.ID, a.OwnerID, a.BankCode, a.BankName, a.AccountNumber,
		a.HolderName, a.Branch, a.IsDefault, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

// GetByID fetches a bank account by UUID.
func (r *BankAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE id = $1`

	a := &domain.BankAccount{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OwnerID, &a.BankCode, &a.BankName, &a.AccountNumber,
		&a.HolderName, &a.Branch, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account by id: %w", err)
	}
	return a, nil
}

// ListByOwner fetches all of an owner's bank accounts (non-locking read).
func (r *BankAccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts
		WHERE owner_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	return collectBankAccounts(rows)
}

// ListByOwnerForUpdate locks all of an owner's bank accounts for the duration
// of the transaction. The lock serializes add/set-default/remove for one
// owner so the two-accounts and single-default invariants hold.
func (r *BankAccountRepo) ListByOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts
		WHERE owner_id = $1 ORDER BY created_at ASC FOR UPDATE`

	rows, err := tx.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lock bank accounts: %w", err)
	}
	defer rows.Close()

	return collectBankAccounts(rows)
}

func collectBankAccounts(rows pgx.Rows) ([]domain.BankAccount, error) {
	var items []domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(
			&a.ID, &a.OwnerID, &a.BankCode, &a.BankName, &a.AccountNumber,
			&a.HolderName, &a.Branch, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bank accounts: %w", err)
	}
	return items, nil
}

// Update rewrites a bank account's destination details.
func (r *BankAccountRepo) Update(ctx context.Context, a *domain.BankAccount) error {
	query := `UPDATE bank_accounts
		SET bank_code = $1, bank_name = $2, account_number = $3, holder_name = $4, branch = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		a.BankCode, a.BankName, a.AccountNumber, a.HolderName, a.Branch, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bank account not found: %s", a.ID)
	}
	return nil
}

// Delete removes a bank account within a database transaction.
func (r *BankAccountRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bank account not found: %s", id)
	}
	return nil
}

// ClearDefault unsets is_default on all of an owner's accounts.
func (r *BankAccountRepo) ClearDefault(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET is_default = FALSE, updated_at = NOW() WHERE owner_id = $1 AND is_default = TRUE`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("clear default bank account: %w", err)
	}
	return nil
}

// SetDefault marks one account as the default payout destination.
func (r *BankAccountRepo) SetDefault(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE bank_accounts SET is_default = TRUE, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set default bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bank account not found: %s", id)
	}
	return nil
}

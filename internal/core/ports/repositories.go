package ports

import (
	"context"
	"time"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic
// locking; all balance mutations go through UpdateBalance within such a block.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error
}

// TransactionRepository defines persistence for the append-only ledger.
// Rows are inserted inside the same transaction that updates the wallet row
// and never updated afterwards.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error)
	// SumByWallet recomputes the balance from the log, for reconciliation.
	SumByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
}

// RequestRepository defines persistence for deposit/withdraw requests.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.WalletRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.WalletRequest, int64, error)
	// Resolve writes the terminal status, reason and resolution timestamp.
	// Must run in the same transaction as any ledger mutation for the request.
	Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus, reason *string, resolvedAt time.Time) error
	CountPending(ctx context.Context) (int64, error)
	HasPendingForBankAccount(ctx context.Context, bankAccountID uuid.UUID) (bool, error)
}

// BankAccountRepository defines persistence for payout destinations.
// Mutations run inside a transaction so the two-accounts and single-default
// invariants hold under concurrent calls.
type BankAccountRepository interface {
	// LockOwner serializes registry mutations for one owner within the
	// transaction (advisory lock; row locks cannot cover inserts).
	LockOwner(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) error
	Create(ctx context.Context, tx pgx.Tx, account *domain.BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.BankAccount, error)
	ListByOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) ([]domain.BankAccount, error)
	Update(ctx context.Context, account *domain.BankAccount) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	ClearDefault(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) error
	SetDefault(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// OrderRepository is the narrow read/write interface onto the order
// subsystem: the wallet core only touches status and the completion fields.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error)
	UpdateCompletion(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	CountPendingCompletion(ctx context.Context) (int64, error)
}

// AuditRepository persists operator decision records.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

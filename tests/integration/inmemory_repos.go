package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transaction blocks with a single mutex,
// standing in for the row locks the real repos take with FOR UPDATE. Reads
// inside a transaction observe the state left by the previous committed one.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{unlock: sync.OnceFunc(t.mu.Unlock)}, nil
}

// lockTx holds the transactor lock until Commit or Rollback, whichever comes
// first. Writes apply immediately; rollback does not undo them, which is
// sufficient for the happy-path and conflict flows exercised here.
type lockTx struct {
	unlock func()
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.unlock(); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.unlock(); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockTx) Conn() *pgx.Conn { return nil }

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors ON CONFLICT (user_id) DO NOTHING.
	for _, existing := range r.wallets {
		if existing.UserID == w.UserID {
			return nil
		}
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			cp := r.transactions[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.WalletID == walletID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) SumByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, t := range r.transactions {
		if t.WalletID == walletID && t.Status == domain.TransactionStatusSuccess {
			sum += t.Amount
		}
	}
	return sum, nil
}

// allByWallet returns every ledger entry for a wallet in insertion order,
// for invariant checks in tests.
func (r *inMemoryTransactionRepo) allByWallet(walletID uuid.UUID) []domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.WalletID == walletID {
			result = append(result, t)
		}
	}
	return result
}

// --- In-Memory Request Repo ---

type inMemoryRequestRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.WalletRequest
}

func newInMemoryRequestRepo() *inMemoryRequestRepo {
	return &inMemoryRequestRepo{requests: make(map[uuid.UUID]*domain.WalletRequest)}
}

func (r *inMemoryRequestRepo) Create(ctx context.Context, req *domain.WalletRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *inMemoryRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *inMemoryRequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryRequestRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.WalletRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			result = append(result, *req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.WalletRequest{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryRequestRepo) Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus, reason *string, resolvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != domain.RequestStatusPending {
		return fmt.Errorf("request not pending: %s", id)
	}
	req.Status = status
	req.RejectionReason = reason
	req.ResolvedAt = &resolvedAt
	return nil
}

func (r *inMemoryRequestRepo) CountPending(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, req := range r.requests {
		if req.Status == domain.RequestStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *inMemoryRequestRepo) HasPendingForBankAccount(ctx context.Context, bankAccountID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.requests {
		if req.BankAccountID != nil && *req.BankAccountID == bankAccountID && req.Status == domain.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

// --- In-Memory Bank Account Repo ---

type inMemoryBankAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.BankAccount
}

func newInMemoryBankAccountRepo() *inMemoryBankAccountRepo {
	return &inMemoryBankAccountRepo{accounts: make(map[uuid.UUID]*domain.BankAccount)}
}

func (r *inMemoryBankAccountRepo) LockOwner(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) error {
	// The transactor lock already serializes registry mutations.
	return nil
}

func (r *inMemoryBankAccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryBankAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryBankAccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.BankAccount
	for _, a := range r.accounts {
		if a.OwnerID == ownerID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryBankAccountRepo) ListByOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) ([]domain.BankAccount, error) {
	return r.ListByOwner(ctx, ownerID)
}

func (r *inMemoryBankAccountRepo) Update(ctx context.Context, a *domain.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.accounts[a.ID]
	if !ok {
		return fmt.Errorf("bank account not found: %s", a.ID)
	}
	existing.BankCode = a.BankCode
	existing.BankName = a.BankName
	existing.AccountNumber = a.AccountNumber
	existing.HolderName = a.HolderName
	existing.Branch = a.Branch
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryBankAccountRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return fmt.Errorf("bank account not found: %s", id)
	}
	delete(r.accounts, id)
	return nil
}

func (r *inMemoryBankAccountRepo) ClearDefault(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.OwnerID == ownerID {
			a.IsDefault = false
		}
	}
	return nil
}

func (r *inMemoryBankAccountRepo) SetDefault(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("bank account not found: %s", id)
	}
	a.IsDefault = true
	return nil
}

// --- In-Memory Order Repo ---

type inMemoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

// seed inserts an order directly; order creation belongs to the fulfillment
// subsystem and has no endpoint here.
func (r *inMemoryOrderRepo) seed(o *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
}

func (r *inMemoryOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryOrderRepo) UpdateCompletion(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[o.ID]
	if !ok {
		return fmt.Errorf("order not found: %s", o.ID)
	}
	existing.Status = o.Status
	existing.CompletionRequestedAt = o.CompletionRequestedAt
	existing.CompletionApprovedAt = o.CompletionApprovedAt
	existing.CompletionRejectedAt = o.CompletionRejectedAt
	existing.CompletionRejectionReason = o.CompletionRejectionReason
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryOrderRepo) CountPendingCompletion(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusPendingCompletion {
			count++
		}
	}
	return count, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

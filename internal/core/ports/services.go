package ports

import (
	"context"
	"time"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Ledger is the single serializer of balance mutations for a wallet. Both
// operations run inside the caller-supplied database transaction: they lock
// the wallet row, append exactly one ledger entry with its BalanceAfter
// snapshot, and update the cached balance. The caller commits, so a workflow
// status transition and its ledger mutation land in one atomic unit.
type Ledger interface {
	Credit(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amount int64, txType domain.TransactionType, description string) (*domain.Transaction, error)
	Debit(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amount int64, txType domain.TransactionType, description string) (*domain.Transaction, error)
}

// WalletService exposes wallet queries to the surrounding application.
type WalletService interface {
	// GetOrCreate returns the user's wallet, creating it on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error)
}

// CreateRequestInput holds validated input for request creation.
type CreateRequestInput struct {
	UserID        uuid.UUID
	Type          domain.RequestType
	Amount        int64
	BankAccountID *uuid.UUID
	Description   string
}

// DepositInstructions tells the requester how to perform the manual bank
// transfer that backs a deposit request.
type DepositInstructions struct {
	PaymentReference string
	QRImageURL       string
	BankBIN          string
	AccountNumber    string
	HolderName       string
}

// ResolveRequestInput holds an operator decision on a wallet request.
type ResolveRequestInput struct {
	RequestID       uuid.UUID
	ActorID         uuid.UUID
	Approved        bool
	RejectionReason string
}

// RequestService manages deposit/withdraw requests from creation through the
// operator decision.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.WalletRequest, *DepositInstructions, error)
	Resolve(ctx context.Context, input ResolveRequestInput) (*domain.WalletRequest, error)
	List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.WalletRequest, int64, error)
}

// OrderCompletionService manages the order lifecycle's terminal approval gate.
type OrderCompletionService interface {
	// RequestCompletion asserts delivery, moving SHIPPED -> PENDING_COMPLETION
	// and clearing any prior rejection stamp.
	RequestCompletion(ctx context.Context, orderID, sellerID uuid.UUID) (*domain.Order, error)
	// ResolveCompletion applies the operator decision. Approval credits the
	// seller's wallet exactly once; rejection returns the order to SHIPPED.
	ResolveCompletion(ctx context.Context, orderID, actorID uuid.UUID, approved bool, reason string) (*domain.Order, error)
}

// BankAccountInput holds validated input for registering or updating a
// payout destination.
type BankAccountInput struct {
	OwnerID       uuid.UUID
	BankCode      string
	BankName      string
	AccountNumber string
	HolderName    string
	Branch        *string
}

// BankAccountService manages a user's payout destinations.
type BankAccountService interface {
	Add(ctx context.Context, input BankAccountInput) (*domain.BankAccount, error)
	Update(ctx context.Context, id uuid.UUID, input BankAccountInput) (*domain.BankAccount, error)
	Remove(ctx context.Context, id, ownerID uuid.UUID) error
	SetDefault(ctx context.Context, id, ownerID uuid.UUID) (*domain.BankAccount, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.BankAccount, error)
}

// TokenService validates JWTs issued by the platform's identity service.
// Generate exists for tooling and tests; the core has no issuance endpoint.
type TokenService interface {
	Generate(userID uuid.UUID, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// Role values carried in token claims.
const (
	RoleUser     = "user"
	RoleOperator = "operator"
)

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   string
}

// PendingCounts is the operator dashboard's notification state. Callers poll
// it on their own cadence; the core only answers cheaply.
type PendingCounts struct {
	PendingRequests    int64 `json:"pending_requests"`
	PendingCompletions int64 `json:"pending_completions"`
}

// PendingCountsCache is the Redis-layer cache for PendingCounts.
type PendingCountsCache interface {
	Get(ctx context.Context) (*PendingCounts, error) // nil, nil on miss
	Set(ctx context.Context, counts PendingCounts, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// StatsService answers operator dashboard queries.
type StatsService interface {
	GetPendingCounts(ctx context.Context) (*PendingCounts, error)
}

// AuditService records operator decisions, best-effort.
type AuditService interface {
	Record(ctx context.Context, actorID uuid.UUID, action domain.AuditAction, entityID uuid.UUID, approved bool, detail string)
}

package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// GetOrCreate returns the user's wallet, creating it on first access. A
// concurrent create for the same user loses the insert (ON CONFLICT) and
// both callers read the surviving row.
func (s *WalletServiceImpl) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet != nil {
		return wallet, nil
	}

	now := time.Now().UTC()
	fresh := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   0,
		Currency:  "VND",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, fresh); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	// Reread: the insert may have been a no-op if another request created
	// the wallet first.
	wallet, err = s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reread wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.InternalError(fmt.Errorf("wallet missing after create for user %s", userID))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("user_id", userID.String()).
		Msg("wallet created on first access")

	return wallet, nil
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error) {
	wallet, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	page, pageSize = clampPage(page, pageSize)
	items, total, err := s.txRepo.ListByWallet(ctx, wallet.ID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return items, total, nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerService implements ports.Ledger. All balance mutations for a wallet
// funnel through here, under the wallet row lock held by the surrounding
// database transaction: the lock is acquired before the balance is read, so
// no two mutations compute BalanceAfter from the same prior balance. The
// appended ledger entry and the balance update commit (or roll back) together
// with whatever workflow transition the caller carries in the same tx.
type LedgerService struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(walletRepo ports.WalletRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// Credit adds amount to the wallet. amount must be positive.
func (s *LedgerService) Credit(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amount int64, txType domain.TransactionType, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	return s.apply(ctx, tx, walletID, amount, txType, description)
}

// Debit subtracts amount from the wallet. amount must be positive and may
// not exceed the current balance; the check runs under the same row lock as
// the mutation, so there is no read-then-write race.
func (s *LedgerService) Debit(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amount int64, txType domain.TransactionType, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	return s.apply(ctx, tx, walletID, -amount, txType, description)
}

func (s *LedgerService) apply(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, signed int64, txType domain.TransactionType, description string) (*domain.Transaction, error) {
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, tx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	newBalance := wallet.Balance + signed
	if newBalance < 0 {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:           uuid.New(),
		WalletID:     wallet.ID,
		Type:         txType,
		Amount:       signed,
		BalanceAfter: newBalance,
		Description:  description,
		Status:       domain.TransactionStatusSuccess,
		CreatedAt:    now,
	}

	if err := s.txRepo.Create(ctx, tx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	s.log.Debug().
		Str("wallet_id", wallet.ID.String()).
		Str("tx_id", txn.ID.String()).
		Int64("amount", signed).
		Int64("balance_after", newBalance).
		Msg("ledger entry appended")

	return txn, nil
}

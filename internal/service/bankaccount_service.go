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

// BankAccountServiceImpl implements ports.BankAccountService. Mutations take
// a per-owner advisory lock so the two-accounts and single-default
// invariants hold under concurrent calls.
type BankAccountServiceImpl struct {
	bankRepo   ports.BankAccountRepository
	reqRepo    ports.RequestRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewBankAccountService creates a new BankAccountServiceImpl.
func NewBankAccountService(
	bankRepo ports.BankAccountRepository,
	reqRepo ports.RequestRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *BankAccountServiceImpl {
	return &BankAccountServiceImpl{
		bankRepo:   bankRepo,
		reqRepo:    reqRepo,
		transactor: transactor,
		log:        log,
	}
}

// Add registers a payout destination. The first account becomes the default.
func (s *BankAccountServiceImpl) Add(ctx context.Context, input ports.BankAccountInput) (*domain.BankAccount, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.bankRepo.LockOwner(ctx, dbTx, input.OwnerID); err != nil {
		return nil, apperror.InternalError(err)
	}
	existing, err := s.bankRepo.ListByOwnerForUpdate(ctx, dbTx, input.OwnerID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if len(existing) >= domain.MaxBankAccountsPerOwner {
		return nil, apperror.ErrBankAccountLimitExceeded()
	}

	now := time.Now().UTC()
	account := &domain.BankAccount{
		ID:            uuid.New(),
		OwnerID:       input.OwnerID,
		BankCode:      input.BankCode,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		HolderName:    input.HolderName,
		Branch:        input.Branch,
		IsDefault:     len(existing) == 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bankRepo.Create(ctx, dbTx, account); err != nil {
		return nil, apperror.InternalError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("owner_id", input.OwnerID.String()).
		Bool("is_default", account.IsDefault).
		Msg("bank account added")

	return account, nil
}

// Update rewrites the destination details of an owned account.
func (s *BankAccountServiceImpl) Update(ctx context.Context, id uuid.UUID, input ports.BankAccountInput) (*domain.BankAccount, error) {
	account, err := s.ownedAccount(ctx, id, input.OwnerID)
	if err != nil {
		return nil, err
	}

	account.BankCode = input.BankCode
	account.BankName = input.BankName
	account.AccountNumber = input.AccountNumber
	account.HolderName = input.HolderName
	account.Branch = input.Branch
	account.UpdatedAt = time.Now().UTC()

	if err := s.bankRepo.Update(ctx, account); err != nil {
		return nil, apperror.InternalError(err)
	}
	return account, nil
}

// Remove deletes an owned account unless a pending withdrawal still
// references it.
func (s *BankAccountServiceImpl) Remove(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.ownedAccount(ctx, id, ownerID); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.bankRepo.LockOwner(ctx, dbTx, ownerID); err != nil {
		return apperror.InternalError(err)
	}
	inUse, err := s.reqRepo.HasPendingForBankAccount(ctx, id)
	if err != nil {
		return apperror.InternalError(err)
	}
	if inUse {
		return apperror.ErrBankAccountInUse()
	}
	if err := s.bankRepo.Delete(ctx, dbTx, id); err != nil {
		return apperror.InternalError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("account_id", id.String()).Msg("bank account removed")
	return nil
}

// SetDefault atomically moves the default flag: any other default for the
// owner is cleared in the same transaction, so no moment exposes zero or two
// defaults.
func (s *BankAccountServiceImpl) SetDefault(ctx context.Context, id, ownerID uuid.UUID) (*domain.BankAccount, error) {
	account, err := s.ownedAccount(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.bankRepo.LockOwner(ctx, dbTx, ownerID); err != nil {
		return nil, apperror.InternalError(err)
	}
	if err := s.bankRepo.ClearDefault(ctx, dbTx, ownerID); err != nil {
		return nil, apperror.InternalError(err)
	}
	if err := s.bankRepo.SetDefault(ctx, dbTx, id); err != nil {
		return nil, apperror.InternalError(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	account.IsDefault = true
	account.UpdatedAt = time.Now().UTC()
	return account, nil
}

// List returns all of the owner's payout destinations.
func (s *BankAccountServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]domain.BankAccount, error) {
	accounts, err := s.bankRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return accounts, nil
}

func (s *BankAccountServiceImpl) ownedAccount(ctx context.Context, id, ownerID uuid.UUID) (*domain.BankAccount, error) {
	account, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if account == nil {
		return nil, apperror.ErrNotFound("bank account")
	}
	if account.OwnerID != ownerID {
		return nil, apperror.ErrNotAccountOwner()
	}
	return account, nil
}

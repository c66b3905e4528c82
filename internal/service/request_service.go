package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-wallet/config"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"
	"marketplace-wallet/pkg/vietqr"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// autoRejectReason is stored when a withdrawal no longer clears the
// authoritative balance check at approval time.
const autoRejectReason = "insufficient balance at approval time"

// RequestServiceImpl implements ports.RequestService.
//
// Creation never touches the ledger: a request only records intent. The
// single ledger mutation happens inside Resolve, in the same database
// transaction as the request's terminal status write, so a request can never
// end up APPROVED without its transaction nor PENDING after one succeeded.
type RequestServiceImpl struct {
	reqRepo      ports.RequestRepository
	bankRepo     ports.BankAccountRepository
	walletSvc    ports.WalletService
	ledger       ports.Ledger
	transactor   ports.DBTransactor
	pendingCache ports.PendingCountsCache
	auditSvc     ports.AuditService
	bank         config.BankConfig
	limits       config.LimitsConfig
	log          zerolog.Logger
}

// NewRequestService creates a new RequestServiceImpl.
func NewRequestService(
	reqRepo ports.RequestRepository,
	bankRepo ports.BankAccountRepository,
	walletSvc ports.WalletService,
	ledger ports.Ledger,
	transactor ports.DBTransactor,
	pendingCache ports.PendingCountsCache,
	auditSvc ports.AuditService,
	bank config.BankConfig,
	limits config.LimitsConfig,
	log zerolog.Logger,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		reqRepo:      reqRepo,
		bankRepo:     bankRepo,
		walletSvc:    walletSvc,
		ledger:       ledger,
		transactor:   transactor,
		pendingCache: pendingCache,
		auditSvc:     auditSvc,
		bank:         bank,
		limits:       limits,
		log:          log,
	}
}

// Create validates and records a deposit/withdraw intent. For deposits the
// response carries the payment reference and VietQR image URL the requester
// uses for the manual bank transfer.
func (s *RequestServiceImpl) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.WalletRequest, *ports.DepositInstructions, error) {
	if input.Amount < s.limits.MinRequestAmount || input.Amount > s.limits.MaxRequestAmount {
		return nil, nil, apperror.ErrAmountOutOfRange(s.limits.MinRequestAmount, s.limits.MaxRequestAmount)
	}

	wallet, err := s.walletSvc.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}

	if input.Type == domain.RequestTypeWithdraw {
		if input.BankAccountID == nil {
			return nil, nil, apperror.Validation("bank_account_id is required for withdrawals")
		}
		account, err := s.bankRepo.GetByID(ctx, *input.BankAccountID)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("get bank account: %w", err))
		}
		if account == nil {
			return nil, nil, apperror.ErrNotFound("bank account")
		}
		if account.OwnerID != input.UserID {
			return nil, nil, apperror.ErrNotAccountOwner()
		}
		// Advisory pre-check only. The authoritative check runs again at
		// approval time under the wallet row lock.
		if input.Amount > wallet.Balance {
			return nil, nil, apperror.ErrInsufficientFunds()
		}
	}

	now := time.Now().UTC()
	req := &domain.WalletRequest{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		UserID:        input.UserID,
		Type:          input.Type,
		Amount:        input.Amount,
		BankAccountID: input.BankAccountID,
		Description:   input.Description,
		Status:        domain.RequestStatusPending,
		CreatedAt:     now,
	}

	var instructions *ports.DepositInstructions
	if input.Type == domain.RequestTypeDeposit {
		ref := vietqr.Reference(req.ID)
		req.PaymentReference = &ref
		instructions = &ports.DepositInstructions{
			PaymentReference: ref,
			QRImageURL:       vietqr.ImageURL(s.bank.BIN, s.bank.AccountNumber, req.Amount, ref),
			BankBIN:          s.bank.BIN,
			AccountNumber:    s.bank.AccountNumber,
			HolderName:       s.bank.HolderName,
		}
	}

	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("create request: %w", err))
	}

	s.invalidatePendingCounts(ctx)

	s.log.Info().
		Str("request_id", req.ID.String()).
		Str("user_id", input.UserID.String()).
		Str("type", string(req.Type)).
		Int64("amount", req.Amount).
		Msg("wallet request created")

	return req, instructions, nil
}

// Resolve applies the operator decision. Exactly one terminal transition per
// request: the row lock serializes concurrent resolutions and the loser sees
// a non-pending status.
func (s *RequestServiceImpl) Resolve(ctx context.Context, input ports.ResolveRequestInput) (*domain.WalletRequest, error) {
	if !input.Approved && input.RejectionReason == "" {
		return nil, apperror.ErrMissingReason()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	req, err := s.reqRepo.GetByIDForUpdate(ctx, dbTx, input.RequestID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock request: %w", err))
	}
	if req == nil {
		return nil, apperror.ErrNotFound("request")
	}
	if !req.IsPending() {
		return nil, apperror.ErrAlreadyResolved()
	}

	now := time.Now().UTC()

	if !input.Approved {
		reason := input.RejectionReason
		if err := s.reqRepo.Resolve(ctx, dbTx, req.ID, domain.RequestStatusRejected, &reason, now); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("reject request: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		req.Status = domain.RequestStatusRejected
		req.RejectionReason = &reason
		req.ResolvedAt = &now
		s.afterResolve(ctx, input, req)
		return req, nil
	}

	switch req.Type {
	case domain.RequestTypeDeposit:
		desc := fmt.Sprintf("deposit %s", derefOr(req.PaymentReference, req.ID.String()))
		if _, err := s.ledger.Credit(ctx, dbTx, req.WalletID, req.Amount, domain.TransactionTypeDeposit, desc); err != nil {
			return nil, err
		}
	case domain.RequestTypeWithdraw:
		desc := fmt.Sprintf("withdrawal request #%s", req.ID)
		_, err := s.ledger.Debit(ctx, dbTx, req.WalletID, req.Amount, domain.TransactionTypeWithdraw, desc)
		if err != nil {
			if apperror.HasCode(err, apperror.CodeInsufficientFunds) {
				// Balance dropped since creation. Auto-reject with a system
				// reason instead of failing the operator's call.
				reason := autoRejectReason
				if rErr := s.reqRepo.Resolve(ctx, dbTx, req.ID, domain.RequestStatusRejected, &reason, now); rErr != nil {
					return nil, apperror.InternalError(fmt.Errorf("auto-reject request: %w", rErr))
				}
				if cErr := dbTx.Commit(ctx); cErr != nil {
					return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", cErr))
				}
				req.Status = domain.RequestStatusRejected
				req.RejectionReason = &reason
				req.ResolvedAt = &now
				s.afterResolve(ctx, input, req)
				s.log.Warn().
					Str("request_id", req.ID.String()).
					Int64("amount", req.Amount).
					Msg("withdrawal auto-rejected: insufficient balance at approval")
				return req, nil
			}
			return nil, err
		}
	default:
		return nil, apperror.InternalError(fmt.Errorf("unknown request type %q", req.Type))
	}

	if err := s.reqRepo.Resolve(ctx, dbTx, req.ID, domain.RequestStatusApproved, nil, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("approve request: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	req.Status = domain.RequestStatusApproved
	req.ResolvedAt = &now
	s.afterResolve(ctx, input, req)

	s.log.Info().
		Str("request_id", req.ID.String()).
		Str("type", string(req.Type)).
		Int64("amount", req.Amount).
		Msg("wallet request approved")

	return req, nil
}

// List returns the user's requests, newest first.
func (s *RequestServiceImpl) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.WalletRequest, int64, error) {
	page, pageSize = clampPage(page, pageSize)
	items, total, err := s.reqRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list requests: %w", err))
	}
	return items, total, nil
}

func (s *RequestServiceImpl) afterResolve(ctx context.Context, input ports.ResolveRequestInput, req *domain.WalletRequest) {
	s.invalidatePendingCounts(ctx)
	if s.auditSvc != nil {
		detail := fmt.Sprintf("%s %d", req.Type, req.Amount)
		if req.RejectionReason != nil {
			detail += ": " + *req.RejectionReason
		}
		s.auditSvc.Record(ctx, input.ActorID, domain.AuditActionResolveRequest, req.ID, req.Status == domain.RequestStatusApproved, detail)
	}
}

func (s *RequestServiceImpl) invalidatePendingCounts(ctx context.Context) {
	if s.pendingCache == nil {
		return
	}
	if err := s.pendingCache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate pending counts cache")
	}
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

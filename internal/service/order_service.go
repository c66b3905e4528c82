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

// OrderCompletionServiceImpl implements ports.OrderCompletionService, the
// terminal approval gate of the order lifecycle. PENDING_COMPLETION is the
// only state money moves from; approval credits the seller's wallet in the
// same transaction that stamps the order COMPLETED.
type OrderCompletionServiceImpl struct {
	orderRepo    ports.OrderRepository
	walletSvc    ports.WalletService
	ledger       ports.Ledger
	transactor   ports.DBTransactor
	pendingCache ports.PendingCountsCache
	auditSvc     ports.AuditService
	log          zerolog.Logger
}

// NewOrderCompletionService creates a new OrderCompletionServiceImpl.
func NewOrderCompletionService(
	orderRepo ports.OrderRepository,
	walletSvc ports.WalletService,
	ledger ports.Ledger,
	transactor ports.DBTransactor,
	pendingCache ports.PendingCountsCache,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *OrderCompletionServiceImpl {
	return &OrderCompletionServiceImpl{
		orderRepo:    orderRepo,
		walletSvc:    walletSvc,
		ledger:       ledger,
		transactor:   transactor,
		pendingCache: pendingCache,
		auditSvc:     auditSvc,
		log:          log,
	}
}

// RequestCompletion asserts delivery: SHIPPED -> PENDING_COMPLETION. A prior
// rejection stamp is cleared so the operator never sees stale audit fields on
// a fresh attempt.
func (s *OrderCompletionServiceImpl) RequestCompletion(ctx context.Context, orderID, sellerID uuid.UUID) (*domain.Order, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if order == nil || order.SellerID != sellerID {
		return nil, apperror.ErrNotFound("order")
	}
	if !order.CanRequestCompletion() {
		return nil, apperror.ErrInvalidStateTransition(string(order.Status))
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusPendingCompletion
	order.CompletionRequestedAt = &now
	order.CompletionRejectedAt = nil
	order.CompletionRejectionReason = nil

	if err := s.orderRepo.UpdateCompletion(ctx, dbTx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidatePendingCounts(ctx)

	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("seller_id", sellerID.String()).
		Msg("order completion requested")

	return order, nil
}

// ResolveCompletion applies the operator decision on an order awaiting
// completion. Approval credits the seller exactly once: the row lock
// serializes concurrent calls, the loser finds the order no longer in
// PENDING_COMPLETION, and CompletionApprovedAt guards against any path that
// would credit an already-approved order again.
func (s *OrderCompletionServiceImpl) ResolveCompletion(ctx context.Context, orderID, actorID uuid.UUID, approved bool, reason string) (*domain.Order, error) {
	if !approved && reason == "" {
		return nil, apperror.ErrMissingReason()
	}

	// Peek at the order to resolve the seller's wallet before taking locks;
	// wallet creation is idempotent and must not run inside the decision tx.
	peek, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if peek == nil {
		return nil, apperror.ErrNotFound("order")
	}

	var sellerWallet *domain.Wallet
	if approved {
		sellerWallet, err = s.walletSvc.GetOrCreate(ctx, peek.SellerID)
		if err != nil {
			return nil, err
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}
	if order.Status != domain.OrderStatusPendingCompletion {
		return nil, apperror.ErrInvalidStateTransition(string(order.Status))
	}

	now := time.Now().UTC()

	if approved {
		if !order.WasApproved() {
			desc := fmt.Sprintf("order #%s settlement", order.ID)
			if _, err := s.ledger.Credit(ctx, dbTx, sellerWallet.ID, order.TotalAmount, domain.TransactionTypePayment, desc); err != nil {
				return nil, err
			}
		}
		order.Status = domain.OrderStatusCompleted
		order.CompletionApprovedAt = &now
	} else {
		order.Status = domain.OrderStatusShipped
		order.CompletionRejectedAt = &now
		order.CompletionRejectionReason = &reason
	}

	if err := s.orderRepo.UpdateCompletion(ctx, dbTx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidatePendingCounts(ctx)
	if s.auditSvc != nil {
		detail := fmt.Sprintf("total %d", order.TotalAmount)
		if !approved {
			detail += ": " + reason
		}
		s.auditSvc.Record(ctx, actorID, domain.AuditActionResolveCompletion, order.ID, approved, detail)
	}

	s.log.Info().
		Str("order_id", order.ID.String()).
		Bool("approved", approved).
		Int64("total_amount", order.TotalAmount).
		Msg("order completion resolved")

	return order, nil
}

func (s *OrderCompletionServiceImpl) invalidatePendingCounts(ctx context.Context) {
	if s.pendingCache == nil {
		return
	}
	if err := s.pendingCache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate pending counts cache")
	}
}

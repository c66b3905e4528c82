package service

import (
	"context"
	"time"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const auditWriteTimeout = 5 * time.Second

// AuditServiceImpl implements ports.AuditService. Writes are detached from
// the caller's context and best-effort: an audit failure never fails or
// delays an operator decision.
type AuditServiceImpl struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, log: log}
}

// Record persists an operator decision in the background.
func (s *AuditServiceImpl) Record(_ context.Context, actorID uuid.UUID, action domain.AuditAction, entityID uuid.UUID, approved bool, detail string) {
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		EntityID:  entityID,
		Approved:  approved,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error().Err(err).
				Str("action", string(action)).
				Str("entity_id", entityID.String()).
				Msg("failed to write audit log")
		}
	}()
}

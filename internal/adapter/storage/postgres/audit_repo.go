package postgres

import (
	"context"
	"fmt"

	"marketplace-wallet/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create inserts an operator decision record.
func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, actor_id, action, entity_id, approved, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		log.ID, log.ActorID, log.Action, log.EntityID, log.Approved, log.Detail, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies an operator decision recorded for audit.
type AuditAction string

const (
	AuditActionResolveRequest    AuditAction = "RESOLVE_REQUEST"
	AuditActionResolveCompletion AuditAction = "RESOLVE_COMPLETION"
)

// AuditLog records an operator decision. Written best-effort after the
// decision commits; never on the decision's critical path.
type AuditLog struct {
	ID        uuid.UUID   `json:"id"`
	ActorID   uuid.UUID   `json:"actor_id"`
	Action    AuditAction `json:"action"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Approved  bool        `json:"approved"`
	Detail    string      `json:"detail"`
	CreatedAt time.Time   `json:"created_at"`
}

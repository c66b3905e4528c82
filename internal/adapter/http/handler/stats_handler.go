package handler

import (
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles operator dashboard endpoints.
type StatsHandler struct {
	statsSvc ports.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsSvc ports.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// GetPendingCounts handles GET /api/v1/admin/stats/pending.
func (h *StatsHandler) GetPendingCounts(c *gin.Context) {
	counts, err := h.statsSvc.GetPendingCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, counts)
}

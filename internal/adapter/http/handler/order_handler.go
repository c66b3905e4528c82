package handler

import (
	"marketplace-wallet/internal/adapter/http/dto"
	"marketplace-wallet/internal/adapter/http/middleware"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"
	"marketplace-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order completion endpoints.
type OrderHandler struct {
	orderSvc ports.OrderCompletionService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc ports.OrderCompletionService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// RequestCompletion handles POST /api/v1/orders/:id/request-completion.
func (h *OrderHandler) RequestCompletion(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	order, err := h.orderSvc.RequestCompletion(c.Request.Context(), orderID, sellerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOrderResponse(order))
}

// ResolveCompletion handles POST /api/v1/admin/orders/:id/resolve-completion.
func (h *OrderHandler) ResolveCompletion(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	var req dto.ResolveCompletionBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	order, err := h.orderSvc.ResolveCompletion(c.Request.Context(), orderID, actorID, req.Approved, req.RejectionReason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOrderResponse(order))
}

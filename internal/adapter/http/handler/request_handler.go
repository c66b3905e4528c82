package handler

import (
	"math"

	"marketplace-wallet/internal/adapter/http/dto"
	"marketplace-wallet/internal/adapter/http/middleware"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"
	"marketplace-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler handles deposit/withdraw request endpoints.
type RequestHandler struct {
	requestSvc ports.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestSvc ports.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Create handles POST /api/v1/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	input := ports.CreateRequestInput{
		UserID:      userID,
		Type:        domain.RequestType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.BankAccountID != nil {
		id, err := uuid.Parse(*req.BankAccountID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid bank_account_id"))
			return
		}
		input.BankAccountID = &id
	}

	created, instructions, err := h.requestSvc.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := toRequestResponse(created)
	resp.Deposit = toDepositInstructionsResponse(instructions)
	response.Created(c, resp)
}

// List handles GET /api/v1/requests.
func (h *RequestHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := paginationParams(c)

	requests, total, err := h.requestSvc.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, toRequestResponse(&requests[i]))
	}

	response.OK(c, dto.WalletRequestListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

// Resolve handles POST /api/v1/admin/requests/:id/resolve.
func (h *RequestHandler) Resolve(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid request id"))
		return
	}

	var req dto.ResolveRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	resolved, err := h.requestSvc.Resolve(c.Request.Context(), ports.ResolveRequestInput{
		RequestID:       requestID,
		ActorID:         actorID,
		Approved:        req.Approved,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toRequestResponse(resolved))
}

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

// BankAccountHandler handles payout destination endpoints.
type BankAccountHandler struct {
	bankSvc ports.BankAccountService
}

// NewBankAccountHandler creates a new BankAccountHandler.
func NewBankAccountHandler(bankSvc ports.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{bankSvc: bankSvc}
}

// Add handles POST /api/v1/bank-accounts.
func (h *BankAccountHandler) Add(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	input, err := h.bindInput(c, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.bankSvc.Add(c.Request.Context(), *input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBankAccountResponse(account))
}

// List handles GET /api/v1/bank-accounts.
func (h *BankAccountHandler) List(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	accounts, err := h.bankSvc.List(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BankAccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, toBankAccountResponse(&accounts[i]))
	}
	response.OK(c, items)
}

// Update handles PUT /api/v1/bank-accounts/:id.
func (h *BankAccountHandler) Update(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid bank account id"))
		return
	}

	input, bindErr := h.bindInput(c, ownerID)
	if bindErr != nil {
		response.Error(c, bindErr)
		return
	}

	account, err := h.bankSvc.Update(c.Request.Context(), id, *input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBankAccountResponse(account))
}

// Remove handles DELETE /api/v1/bank-accounts/:id.
func (h *BankAccountHandler) Remove(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid bank account id"))
		return
	}

	if err := h.bankSvc.Remove(c.Request.Context(), id, ownerID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// SetDefault handles POST /api/v1/bank-accounts/:id/default.
func (h *BankAccountHandler) SetDefault(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid bank account id"))
		return
	}

	account, err := h.bankSvc.SetDefault(c.Request.Context(), id, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBankAccountResponse(account))
}

func (h *BankAccountHandler) bindInput(c *gin.Context, ownerID uuid.UUID) (*ports.BankAccountInput, error) {
	var req dto.BankAccountBody
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	dto.SanitizeStruct(&req)

	return &ports.BankAccountInput{
		OwnerID:       ownerID,
		BankCode:      req.BankCode,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		Branch:        req.Branch,
	}, nil
}

package handler

import (
	"time"

	"marketplace-wallet/internal/adapter/http/dto"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
)

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:       w.ID.String(),
		UserID:   w.UserID.String(),
		Balance:  w.Balance,
		Currency: w.Currency,
	}
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           t.ID.String(),
		WalletID:     t.WalletID.String(),
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRequestResponse(r *domain.WalletRequest) dto.WalletRequestResponse {
	resp := dto.WalletRequestResponse{
		ID:               r.ID.String(),
		WalletID:         r.WalletID.String(),
		Type:             string(r.Type),
		Amount:           r.Amount,
		Description:      r.Description,
		Status:           string(r.Status),
		RejectionReason:  r.RejectionReason,
		PaymentReference: r.PaymentReference,
		CreatedAt:        r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.BankAccountID != nil {
		s := r.BankAccountID.String()
		resp.BankAccountID = &s
	}
	if r.ResolvedAt != nil {
		s := r.ResolvedAt.UTC().Format(time.RFC3339)
		resp.ResolvedAt = &s
	}
	return resp
}

func toDepositInstructionsResponse(d *ports.DepositInstructions) *dto.DepositInstructionsResponse {
	if d == nil {
		return nil
	}
	return &dto.DepositInstructionsResponse{
		PaymentReference: d.PaymentReference,
		QRImageURL:       d.QRImageURL,
		BankBIN:          d.BankBIN,
		AccountNumber:    d.AccountNumber,
		HolderName:       d.HolderName,
	}
}

func toBankAccountResponse(b *domain.BankAccount) dto.BankAccountResponse {
	return dto.BankAccountResponse{
		ID:            b.ID.String(),
		BankCode:      b.BankCode,
		BankName:      b.BankName,
		AccountNumber: b.AccountNumber,
		HolderName:    b.HolderName,
		Branch:        b.Branch,
		IsDefault:     b.IsDefault,
	}
}

func toOrderResponse(o *domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                        o.ID.String(),
		SellerID:                  o.SellerID.String(),
		TotalAmount:               o.TotalAmount,
		Status:                    string(o.Status),
		CompletionRejectionReason: o.CompletionRejectionReason,
	}
	resp.CompletionRequestedAt = formatTimePtr(o.CompletionRequestedAt)
	resp.CompletionApprovedAt = formatTimePtr(o.CompletionApprovedAt)
	resp.CompletionRejectedAt = formatTimePtr(o.CompletionRejectedAt)
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

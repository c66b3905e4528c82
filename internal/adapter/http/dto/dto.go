package dto

// CreateRequestBody is the request body for creating a wallet request.
type CreateRequestBody struct {
	Type          string  `json:"type" binding:"required,oneof=DEPOSIT WITHDRAW"`
	Amount        int64   `json:"amount" binding:"required,gt=0"`
	Description   string  `json:"description" binding:"max=255"`
	BankAccountID *string `json:"bank_account_id,omitempty" binding:"omitempty,uuid"`
}

// ResolveRequestBody is the operator decision body for a wallet request.
type ResolveRequestBody struct {
	Approved        bool   `json:"approved"`
	RejectionReason string `json:"rejection_reason" binding:"max=255"`
}

// ResolveCompletionBody is the operator decision body for order completion.
type ResolveCompletionBody struct {
	Approved        bool   `json:"approved"`
	RejectionReason string `json:"rejection_reason" binding:"max=255"`
}

// BankAccountBody is the request body for adding or updating a bank account.
type BankAccountBody struct {
	BankCode      string  `json:"bank_code" binding:"required,max=20"`
	BankName      string  `json:"bank_name" binding:"required,max=100"`
	AccountNumber string  `json:"account_number" binding:"required,numeric,max=30"`
	HolderName    string  `json:"holder_name" binding:"required,max=100"`
	Branch        *string `json:"branch,omitempty" binding:"omitempty,max=100"`
}

// WalletResponse is the response body for wallet queries.
type WalletResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// TransactionResponse is the response body for a ledger entry.
type TransactionResponse struct {
	ID           string `json:"id"`
	WalletID     string `json:"wallet_id"`
	Type         string `json:"type"`
	Amount       int64  `json:"amount"`
	BalanceAfter int64  `json:"balance_after"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// WalletRequestResponse is the response body for a wallet request.
type WalletRequestResponse struct {
	ID               string  `json:"id"`
	WalletID         string  `json:"wallet_id"`
	Type             string  `json:"type"`
	Amount           int64   `json:"amount"`
	BankAccountID    *string `json:"bank_account_id,omitempty"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	CreatedAt        string  `json:"created_at"`
	ResolvedAt       *string `json:"resolved_at,omitempty"`

	// Deposit transfer instructions, present on creation of a deposit request.
	Deposit *DepositInstructionsResponse `json:"deposit,omitempty"`
}

// DepositInstructionsResponse tells the requester how to perform the manual
// bank transfer backing a deposit request.
type DepositInstructionsResponse struct {
	PaymentReference string `json:"payment_reference"`
	QRImageURL       string `json:"qr_image_url"`
	BankBIN          string `json:"bank_bin"`
	AccountNumber    string `json:"account_number"`
	HolderName       string `json:"holder_name"`
}

// WalletRequestListResponse wraps a paginated request list.
type WalletRequestListResponse struct {
	Items      []WalletRequestResponse `json:"items"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int                     `json:"total_pages"`
}

// BankAccountResponse is the response body for a bank account.
type BankAccountResponse struct {
	ID            string  `json:"id"`
	BankCode      string  `json:"bank_code"`
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	HolderName    string  `json:"holder_name"`
	Branch        *string `json:"branch,omitempty"`
	IsDefault     bool    `json:"is_default"`
}

// OrderResponse is the completion-relevant slice of an order.
type OrderResponse struct {
	ID                        string  `json:"id"`
	SellerID                  string  `json:"seller_id"`
	TotalAmount               int64   `json:"total_amount"`
	Status                    string  `json:"status"`
	CompletionRequestedAt     *string `json:"completion_requested_at,omitempty"`
	CompletionApprovedAt      *string `json:"completion_approved_at,omitempty"`
	CompletionRejectedAt      *string `json:"completion_rejected_at,omitempty"`
	CompletionRejectionReason *string `json:"completion_rejection_reason,omitempty"`
}

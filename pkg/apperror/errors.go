package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes checked programmatically.
const (
	CodeInvalidAmount     = "WAL_001"
	CodeInsufficientFunds = "WAL_002"
	CodeNotFound          = "WAL_003"
)

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ---- Wallet & Ledger (WAL) ----

func ErrInvalidAmount() *AppError {
	return New("WAL_001", "Amount must be a positive integer", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_002", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrNotFound(entity string) *AppError {
	return New("WAL_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Request Workflow (REQ) ----

func ErrAlreadyResolved() *AppError {
	return New("REQ_001", "Request has already been resolved", http.StatusConflict)
}

func ErrMissingReason() *AppError {
	return New("REQ_002", "Rejection requires a reason", http.StatusBadRequest)
}

func ErrAmountOutOfRange(min, max int64) *AppError {
	return New("REQ_003", fmt.Sprintf("Amount must be between %d and %d", min, max), http.StatusBadRequest)
}

// ---- Order Completion Workflow (ORD) ----

func ErrInvalidStateTransition(from string) *AppError {
	return New("ORD_001", fmt.Sprintf("Order completion action not allowed in status %s", from), http.StatusConflict)
}

// ---- Bank Account Registry (BNK) ----

func ErrBankAccountLimitExceeded() *AppError {
	return New("BNK_001", "At most two bank accounts per owner", http.StatusUnprocessableEntity)
}

func ErrBankAccountInUse() *AppError {
	return New("BNK_002", "Bank account is referenced by a pending request", http.StatusConflict)
}

func ErrNotAccountOwner() *AppError {
	return New("BNK_003", "Bank account does not belong to requester", http.StatusForbidden)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrOperatorOnly() *AppError {
	return New("AUTH_002", "Operator role required", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_000", message, http.StatusBadRequest)
}

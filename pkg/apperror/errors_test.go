package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_002", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[WAL_002] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("WAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "WAL_001", 400},
		{"InsufficientFunds", ErrInsufficientFunds(), "WAL_002", 402},
		{"NotFound", ErrNotFound("wallet"), "WAL_003", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("bad input"), "REQ_000", 400},
		{"AlreadyResolved", ErrAlreadyResolved(), "REQ_001", 409},
		{"MissingReason", ErrMissingReason(), "REQ_002", 400},
		{"AmountOutOfRange", ErrAmountOutOfRange(1000, 100000000), "REQ_003", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAmountOutOfRange_MessageCarriesBounds(t *testing.T) {
	err := ErrAmountOutOfRange(1000, 100000000)
	assert.Contains(t, err.Message, "1000")
	assert.Contains(t, err.Message, "100000000")
}

func TestOrderAndBankErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidStateTransition", ErrInvalidStateTransition("SHIPPED"), "ORD_001", 409},
		{"BankAccountLimitExceeded", ErrBankAccountLimitExceeded(), "BNK_001", 422},
		{"BankAccountInUse", ErrBankAccountInUse(), "BNK_002", 409},
		{"NotAccountOwner", ErrNotAccountOwner(), "BNK_003", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthAndRateErrors(t *testing.T) {
	assert.Equal(t, "AUTH_001", ErrInvalidToken().Code)
	assert.Equal(t, 401, ErrInvalidToken().HTTPStatus)
	assert.Equal(t, "AUTH_002", ErrOperatorOnly().Code)
	assert.Equal(t, 403, ErrOperatorOnly().HTTPStatus)
	assert.Equal(t, "RATE_001", ErrRateLimitExceeded().Code)
	assert.Equal(t, 429, ErrRateLimitExceeded().HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(ErrInsufficientFunds(), CodeInsufficientFunds))
	assert.True(t, HasCode(fmt.Errorf("wrapped: %w", ErrInsufficientFunds()), CodeInsufficientFunds))
	assert.False(t, HasCode(ErrInvalidAmount(), CodeInsufficientFunds))
	assert.False(t, HasCode(errors.New("plain"), CodeInsufficientFunds))
	assert.False(t, HasCode(nil, CodeInsufficientFunds))
}

package postgres

import (
	"context"
	"testing"
	"time"

	"marketplace-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(sellerID uuid.UUID) *domain.Order {
	return &domain.Order{
		ID:          uuid.New(),
		SellerID:    sellerID,
		TotalAmount: 250000,
		Status:      domain.OrderStatusShipped,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func orderColumnNames() []string {
	return []string{
		"id", "seller_id", "total_amount", "status", "completion_requested_at",
		"completion_approved_at", "completion_rejected_at", "completion_rejection_reason",
		"created_at", "updated_at",
	}
}

func orderRow(o *domain.Order) *pgxmock.Rows {
	return pgxmock.NewRows(orderColumnNames()).AddRow(
		o.ID, o.SellerID, o.TotalAmount, o.Status, o.CompletionRequestedAt,
		o.CompletionApprovedAt, o.CompletionRejectedAt, o.CompletionRejectionReason,
		o.CreatedAt, o.UpdatedAt,
	)
}

func TestOrderRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(o.ID).
		WillReturnRows(orderRow(o))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, o.SellerID, result.SellerID)
	assert.Equal(t, domain.OrderStatusShipped, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(orderColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM orders WHERE id .+ FOR UPDATE").
		WithArgs(o.ID).
		WillReturnRows(orderRow(o))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, o.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_UpdateCompletion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder(uuid.New())
	now := time.Now().UTC()
	o.Status = domain.OrderStatusPendingCompletion
	o.CompletionRequestedAt = &now

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WithArgs(o.Status, o.CompletionRequestedAt, o.CompletionApprovedAt,
			o.CompletionRejectedAt, o.CompletionRejectionReason, o.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateCompletion(context.Background(), tx, o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_UpdateCompletion_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WithArgs(o.Status, o.CompletionRequestedAt, o.CompletionApprovedAt,
			o.CompletionRejectedAt, o.CompletionRejectionReason, o.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateCompletion(context.Background(), tx, o)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_CountPendingCompletion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)

	mock.ExpectQuery("SELECT COUNT.+ FROM orders WHERE status").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountPendingCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

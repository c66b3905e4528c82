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

func newTestTransaction(walletID uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:           uuid.New(),
		WalletID:     walletID,
		Type:         domain.TransactionTypeDeposit,
		Amount:       50000,
		BalanceAfter: 150000,
		Description:  "deposit NAP-test",
		Status:       domain.TransactionStatusSuccess,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionColumns() []string {
	return []string{"id", "wallet_id", "type", "amount", "balance_after", "description", "status", "created_at"}
}

func transactionRow(tx *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumns()).AddRow(
		tx.ID, tx.WalletID, tx.Type, tx.Amount, tx.BalanceAfter,
		tx.Description, tx.Status, tx.CreatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(txn.ID, txn.WalletID, txn.Type, txn.Amount, txn.BalanceAfter,
			txn.Description, txn.Status, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.Amount, result.Amount)
	assert.Equal(t, txn.BalanceAfter, result.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	txn := newTestTransaction(walletID)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE wallet_id .+ ORDER BY created_at DESC").
		WithArgs(walletID, 20, 0).
		WillReturnRows(transactionRow(txn))

	items, total, err := repo.ListByWallet(context.Background(), walletID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, txn.ID, items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_SumByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_transactions`).
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(230000)))

	sum, err := repo.SumByWallet(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(230000), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

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

func newTestBankAccount(ownerID uuid.UUID) *domain.BankAccount {
	return &domain.BankAccount{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		BankCode:      "VCB",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		HolderName:    "NGUYEN VAN A",
		IsDefault:     true,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func bankAccountColumnNames() []string {
	return []string{
		"id", "owner_id", "bank_code", "bank_name", "account_number",
		"holder_name", "branch", "is_default", "created_at", "updated_at",
	}
}

func bankAccountRow(a *domain.BankAccount) *pgxmock.Rows {
	return pgxmock.NewRows(bankAccountColumnNames()).AddRow(
		a.ID, a.OwnerID, a.BankCode, a.BankName, a.AccountNumber,
		a.HolderName, a.Branch, a.IsDefault, a.CreatedAt, a.UpdatedAt,
	)
}

func TestBankAccountRepo_LockOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(ownerID.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.LockOwner(context.Background(), tx, ownerID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	a := newTestBankAccount(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bank_accounts").
		WithArgs(a.ID, a.OwnerID, a.BankCode, a.BankName, a.AccountNumber,
			a.HolderName, a.Branch, a.IsDefault, a.CreatedAt, a.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM bank_accounts WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(bankAccountColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_ListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	ownerID := uuid.New()
	a := newTestBankAccount(ownerID)

	mock.ExpectQuery("SELECT .+ FROM bank_accounts\\s+WHERE owner_id .+ ORDER BY created_at ASC").
		WithArgs(ownerID).
		WillReturnRows(bankAccountRow(a))

	items, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
	assert.True(t, items[0].IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_ListByOwnerForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	ownerID := uuid.New()
	a := newTestBankAccount(ownerID)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM bank_accounts\\s+WHERE owner_id .+ FOR UPDATE").
		WithArgs(ownerID).
		WillReturnRows(bankAccountRow(a))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	items, err := repo.ListByOwnerForUpdate(context.Background(), tx, ownerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.OwnerID, items[0].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	a := newTestBankAccount(uuid.New())

	mock.ExpectExec("UPDATE bank_accounts").
		WithArgs(a.BankCode, a.BankName, a.AccountNumber, a.HolderName, a.Branch, a.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Update(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM bank_accounts").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Delete(context.Background(), tx, id)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bank account not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBankAccountRepo_ClearDefaultThenSetDefault(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBankAccountRepo(mock)
	ownerID := uuid.New()
	accountID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bank_accounts SET is_default = FALSE").
		WithArgs(ownerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("UPDATE bank_accounts SET is_default = TRUE").
		WithArgs(accountID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.ClearDefault(context.Background(), tx, ownerID))
	require.NoError(t, repo.SetDefault(context.Background(), tx, accountID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

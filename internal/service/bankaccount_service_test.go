package service

import (
	"context"
	"testing"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bankTestDeps struct {
	svc        *BankAccountServiceImpl
	bankRepo   *mocks.MockBankAccountRepository
	reqRepo    *mocks.MockRequestRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupBankAccountService(t *testing.T) *bankTestDeps {
	ctrl := gomock.NewController(t)
	d := &bankTestDeps{
		bankRepo:   mocks.NewMockBankAccountRepository(ctrl),
		reqRepo:    mocks.NewMockRequestRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewBankAccountService(d.bankRepo, d.reqRepo, d.transactor, zerolog.Nop())
	return d
}

func bankInput(ownerID uuid.UUID) ports.BankAccountInput {
	return ports.BankAccountInput{
		OwnerID:       ownerID,
		BankCode:      "VCB",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		HolderName:    "NGUYEN VAN A",
	}
}

func TestBankAccountService_Add_FirstBecomesDefault(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.bankRepo.EXPECT().LockOwner(ctx, tx, ownerID).Return(nil)
	d.bankRepo.EXPECT().ListByOwnerForUpdate(ctx, tx, ownerID).Return(nil, nil)
	d.bankRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	account, err := d.svc.Add(ctx, bankInput(ownerID))
	require.NoError(t, err)
	assert.True(t, account.IsDefault)
}

func TestBankAccountService_Add_SecondIsNotDefault(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.bankRepo.EXPECT().LockOwner(ctx, tx, ownerID).Return(nil)
	d.bankRepo.EXPECT().ListByOwnerForUpdate(ctx, tx, ownerID).Return([]domain.BankAccount{
		{ID: uuid.New(), OwnerID: ownerID, IsDefault: true},
	}, nil)
	d.bankRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	account, err := d.svc.Add(ctx, bankInput(ownerID))
	require.NoError(t, err)
	assert.False(t, account.IsDefault)
}

func TestBankAccountService_Add_LimitExceeded(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.bankRepo.EXPECT().LockOwner(ctx, tx, ownerID).Return(nil)
	d.bankRepo.EXPECT().ListByOwnerForUpdate(ctx, tx, ownerID).Return([]domain.BankAccount{
		{ID: uuid.New(), OwnerID: ownerID, IsDefault: true},
		{ID: uuid.New(), OwnerID: ownerID},
	}, nil)

	_, err := d.svc.Add(ctx, bankInput(ownerID))
	assertAppError(t, err, "BNK_001")
}

func TestBankAccountService_Update_NotOwner(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()

	d.bankRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.BankAccount{
		ID:      accountID,
		OwnerID: uuid.New(),
	}, nil)

	_, err := d.svc.Update(ctx, accountID, bankInput(uuid.New()))
	assertAppError(t, err, "BNK_003")
}

func TestBankAccountService_Update_Success(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	accountID := uuid.New()

	d.bankRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.BankAccount{
		ID:       accountID,
		OwnerID:  ownerID,
		BankCode: "ACB",
	}, nil)
	d.bankRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	account, err := d.svc.Update(ctx, accountID, bankInput(ownerID))
	require.NoError(t, err)
	assert.Equal(t, "VCB", account.BankCode)
	assert.Equal(t, "NGUYEN VAN A", account.HolderName)
}

func TestBankAccountService_Remove_Success(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	accountID := uuid.New()
	tx := &mockTx{}

	d.bankRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.BankAccount{
		ID:      accountID,
		OwnerID: ownerID,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.bankRepo.EXPECT().LockOwner(ctx, tx, ownerID).Return(nil)
	d.reqRepo.EXPECT().HasPendingForBankAccount(ctx, accountID).Return(false, nil)
	d.bankRepo.EXPECT().Delete(ctx, tx, accountID).Return(nil)

	err := d.svc.Remove(ctx, accountID, ownerID)
	require.NoError(t, err)
}

func TestBankAccountService_Remove_InUseByPendingRequest(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	accountID := uuid.New()
	tx := &mockTx{}

	d.bankRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.BankAccount{
		ID:      accountID,
		OwnerID: ownerID,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.bankRepo.EXPECT().LockOwner(ctx, tx, ownerID).Return(nil)
	d.reqRepo.EXPECT().HasPendingForBankAccount(ctx, accountID).Return(true, nil)

	err := d.svc.Remove(ctx, accountID, ownerID)
	assertAppError(t, err, "BNK_002")
}

func TestBankAccountService_Remove_NotFound(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()

	d.bankRepo.EXPECT().GetByID(ctx, accountID).Return(nil, nil)

	err := d.svc.Remove(ctx, accountID, uuid.New())
	assertAppError(t, err, "WAL_003")
}

func TestBankAccountService_SetDefault_ClearsThenSets(t *testing.T) {
	d := setupBankAccountService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	ownerID := uuid.New()
	accountID := uuid.New()
	tx := &mockTx{}

	d.bankRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.BankAccount{
		ID:      accountID,
		OwnerID: ownerID,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.bankRepo.EXPECT().LockOwner(ctx, tx, ownerID).Return(nil)

	gomock.InOrder(
		d.bankRepo.EXPECT().ClearDefault(ctx, tx, ownerID).Return(nil),
		d.bankRepo.EXPECT().SetDefault(ctx, tx, accountID).Return(nil),
	)

	account, err := d.svc.SetDefault(ctx, accountID, ownerID)
	require.NoError(t, err)
	assert.True(t, account.IsDefault)
}

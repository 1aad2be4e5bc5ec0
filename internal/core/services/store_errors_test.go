package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("connection reset by peer")

func activeAccount() domain.Account {
	return domain.Account{
		AccountID:           "acc-1",
		CreditLimit:         decimal.NewFromInt(1000),
		CurrentBalance:      decimal.NewFromInt(100),
		StatementClosingDay: 15,
		PaymentDueDays:      25,
		Status:              domain.AccountActive,
	}
}

func newMockStore() (*mockLedgerStore, *mockLedgerTx) {
	tx := new(mockLedgerTx)
	return &mockLedgerStore{tx: tx}, tx
}

func TestAuthorize_StoreFailuresAreErrors(t *testing.T) {
	ctx := context.Background()
	req := dto.AuthorizeRequest{ID: "auth-1", CardID: "card-1", Amount: 1000}
	card := &domain.Card{CardID: "card-1", AccountID: "acc-1", Status: domain.CardActive}

	t.Run("lookup", func(t *testing.T) {
		store, _ := newMockStore()
		store.On("FindTransactionByID", ctx, "auth-1").Return(nil, errStoreDown)

		_, err := NewAuthorizationService(store).Authorize(ctx, req)
		assert.ErrorIs(t, err, errStoreDown)
		store.AssertNotCalled(t, "InAccountTx", mock.Anything, mock.Anything)
	})

	t.Run("balance update rolls back", func(t *testing.T) {
		store, tx := newMockStore()
		store.On("FindTransactionByID", ctx, "auth-1").Return(nil, apperrors.ErrNotFound)
		store.On("FindCardByID", ctx, "card-1").Return(card, nil)
		store.On("InAccountTx", ctx, "acc-1").Return(activeAccount(), nil)
		tx.On("FindOrCreateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
			Return(portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeCreated}, nil)
		tx.On("ApplyBalanceDelta", ctx, "acc-1", mock.Anything).Return(decimal.Zero, errStoreDown)

		decision, err := NewAuthorizationService(store).Authorize(ctx, req)
		assert.Nil(t, decision)
		assert.ErrorIs(t, err, errStoreDown)
		tx.AssertExpectations(t)
	})

	t.Run("concurrent delivery replays winner", func(t *testing.T) {
		store, tx := newMockStore()
		winner := domain.Transaction{TransactionID: "auth-1", AccountID: "acc-1", Status: domain.TxnPending}
		store.On("FindTransactionByID", ctx, "auth-1").Return(nil, apperrors.ErrNotFound)
		store.On("FindCardByID", ctx, "card-1").Return(card, nil)
		store.On("InAccountTx", ctx, "acc-1").Return(activeAccount(), nil)
		tx.On("FindOrCreateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
			Return(portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeFound, Transaction: winner}, nil)

		decision, err := NewAuthorizationService(store).Authorize(ctx, req)
		require.NoError(t, err)
		assert.True(t, decision.Approved)
		assert.True(t, decision.Duplicate)
		tx.AssertNotCalled(t, "ApplyBalanceDelta", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("id committed under another account replays it", func(t *testing.T) {
		store, _ := newMockStore()
		winner := &domain.Transaction{
			TransactionID:    "auth-1",
			AccountID:        "acc-2",
			AuthorizedAmount: decimal.NewFromInt(10),
			Status:           domain.TxnPending,
		}
		store.On("FindTransactionByID", ctx, "auth-1").Return(nil, apperrors.ErrNotFound).Once()
		store.On("FindCardByID", ctx, "card-1").Return(card, nil)
		store.On("InAccountTx", ctx, "acc-1").
			Return(domain.Account{}, fmt.Errorf("transaction auth-1: %w", apperrors.ErrDuplicate))
		store.On("FindTransactionByID", ctx, "auth-1").Return(winner, nil).Once()

		decision, err := NewAuthorizationService(store).Authorize(ctx, req)
		require.NoError(t, err)
		assert.True(t, decision.Duplicate)
		assert.True(t, decision.Approved)
		assert.Equal(t, "acc-2", decision.Transaction.AccountID)
		store.AssertExpectations(t)
	})

	t.Run("duplicate that cannot be re-read is an error", func(t *testing.T) {
		store, _ := newMockStore()
		store.On("FindTransactionByID", ctx, "auth-1").Return(nil, apperrors.ErrNotFound).Once()
		store.On("FindCardByID", ctx, "card-1").Return(card, nil)
		store.On("InAccountTx", ctx, "acc-1").
			Return(domain.Account{}, fmt.Errorf("transaction auth-1: %w", apperrors.ErrDuplicate))
		store.On("FindTransactionByID", ctx, "auth-1").Return(nil, errStoreDown).Once()

		_, err := NewAuthorizationService(store).Authorize(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	})
}

func TestApplyPayment_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store, tx := newMockStore()
	store.On("InAccountTx", ctx, "acc-1").Return(activeAccount(), nil)
	tx.On("FindOrCreateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.TxnPayment && txn.Amount.Equal(decimal.NewFromInt(-40)) && txn.NewBalance.Equal(decimal.NewFromInt(60))
	})).Return(portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeCreated}, nil)
	tx.On("ApplyBalanceDelta", ctx, "acc-1", decimal.NewFromInt(-40)).Return(decimal.Zero, errStoreDown)

	_, err := NewPaymentService(store).ApplyPayment(ctx, "acc-1", decimal.NewFromInt(40))
	assert.ErrorIs(t, err, errStoreDown)
	tx.AssertExpectations(t)
}

func TestGenerateForPeriod_FailuresAreCountedNotFatal(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	store, tx := newMockStore()

	ok := activeAccount()
	broken := activeAccount()
	broken.AccountID = "acc-2"
	store.On("ListActiveAccountsByClosingDay", ctx, 15).Return([]domain.Account{ok, broken}, nil)
	store.On("InAccountTx", ctx, "acc-1").Return(ok, nil)
	store.On("InAccountTx", ctx, "acc-2").Return(domain.Account{}, errStoreDown)

	tx.On("FindStatementByBillingPeriod", ctx, "acc-1", mock.Anything).Return(nil, apperrors.ErrNotFound)
	tx.On("FindLatestStatement", ctx, "acc-1").Return(nil, apperrors.ErrNotFound)
	tx.On("ListUnbilledPostedTransactions", ctx, "acc-1", now).Return([]domain.Transaction{}, nil)
	tx.On("CreateStatement", ctx, mock.AnythingOfType("domain.Statement")).Return(nil)

	svc := NewStatementService(store, nil, StatementConfig{Concurrency: 1}, WithClock(func() time.Time { return now }))
	res, err := svc.GenerateForPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.GeneratedCount)
	assert.Equal(t, 1, res.SkippedCount)
	assert.Equal(t, 1, res.FailedCount)
	tx.AssertNotCalled(t, "LinkTransactionsToStatement", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateForPeriod_ListFailureAbortsRun(t *testing.T) {
	ctx := context.Background()
	store, _ := newMockStore()
	store.On("ListActiveAccountsByClosingDay", ctx, mock.Anything).Return(nil, errStoreDown)

	_, err := NewStatementService(store, nil, StatementConfig{}).GenerateForPeriod(ctx)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGenerateForPeriod_AccountSuspendedBeforeItsTurnIsSkipped(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC)
	store, tx := newMockStore()

	listed := activeAccount()
	suspended := activeAccount()
	suspended.Status = domain.AccountSuspended
	store.On("ListActiveAccountsByClosingDay", ctx, 15).Return([]domain.Account{listed}, nil)
	store.On("InAccountTx", ctx, "acc-1").Return(suspended, nil)

	svc := NewStatementService(store, nil, StatementConfig{Concurrency: 1}, WithClock(func() time.Time { return now }))
	res, err := svc.GenerateForPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.GeneratedCount)
	assert.Equal(t, 1, res.SkippedCount)
	assert.Equal(t, 0, res.FailedCount)
	tx.AssertNotCalled(t, "CreateStatement", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "FindStatementByBillingPeriod", mock.Anything, mock.Anything, mock.Anything)
}

package services

import (
	"context"
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// mockLedgerStore is a mock implementation of portsrepo.LedgerStore.
// InAccountTx hands fn the configured tx and account unless an error is set.
type mockLedgerStore struct {
	mock.Mock
	tx *mockLedgerTx
}

var _ portsrepo.LedgerStore = (*mockLedgerStore)(nil)

func (m *mockLedgerStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockLedgerStore) ListActiveAccountsByClosingDay(ctx context.Context, closingDay int) ([]domain.Account, error) {
	args := m.Called(ctx, closingDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockLedgerStore) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockLedgerStore) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockLedgerStore) SaveCard(ctx context.Context, card domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockLedgerStore) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockLedgerStore) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *mockLedgerStore) FindTransactionsByStatementID(ctx context.Context, statementID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *mockLedgerStore) FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}

func (m *mockLedgerStore) ListStatementsByAccountID(ctx context.Context, accountID string) ([]domain.Statement, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Statement), args.Error(1)
}

func (m *mockLedgerStore) InAccountTx(ctx context.Context, accountID string, fn portsrepo.AccountTxFunc) error {
	args := m.Called(ctx, accountID)
	if err := args.Error(1); err != nil {
		return err
	}
	return fn(ctx, m.tx, args.Get(0).(domain.Account))
}

type mockLedgerTx struct {
	mock.Mock
}

var _ portsrepo.LedgerTx = (*mockLedgerTx)(nil)

func (m *mockLedgerTx) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockLedgerTx) FindOrCreateTransaction(ctx context.Context, txn domain.Transaction) (portsrepo.FindOrCreateResult, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(portsrepo.FindOrCreateResult), args.Error(1)
}

func (m *mockLedgerTx) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockLedgerTx) UpdateSettledTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *mockLedgerTx) FindLatestStatement(ctx context.Context, accountID string) (*domain.Statement, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}

func (m *mockLedgerTx) FindStatementByBillingPeriod(ctx context.Context, accountID string, billingPeriodEnd time.Time) (*domain.Statement, error) {
	args := m.Called(ctx, accountID, billingPeriodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}

func (m *mockLedgerTx) ListUnbilledPostedTransactions(ctx context.Context, accountID string, postedUpTo time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, postedUpTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *mockLedgerTx) CreateStatement(ctx context.Context, statement domain.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *mockLedgerTx) LinkTransactionsToStatement(ctx context.Context, statementID string, transactionIDs []string) error {
	args := m.Called(ctx, statementID, transactionIDs)
	return args.Error(0)
}

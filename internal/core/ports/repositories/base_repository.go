package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOutcome tags the result of FindOrCreateTransaction.
type CreateOutcome int

const (
	// OutcomeCreated means the row was inserted by this call.
	OutcomeCreated CreateOutcome = iota + 1
	// OutcomeFound means a row with the same transaction id already existed; nothing was written.
	OutcomeFound
)

func (o CreateOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeFound:
		return "found"
	default:
		return "unknown"
	}
}

// FindOrCreateResult carries the stored row and whether this call created it.
type FindOrCreateResult struct {
	Outcome     CreateOutcome
	Transaction domain.Transaction
}

func (r FindOrCreateResult) Created() bool {
	return r.Outcome == OutcomeCreated
}

// LedgerTx exposes the operations available while an account row lock is held.
// Everything done through a LedgerTx commits or rolls back together.
type LedgerTx interface {
	// FindTransactionForUpdate re-reads a transaction row under the lock.
	// Returns apperrors.ErrNotFound when absent.
	FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindOrCreateTransaction inserts txn unless a row with the same TransactionID exists.
	FindOrCreateTransaction(ctx context.Context, txn domain.Transaction) (FindOrCreateResult, error)

	// ApplyBalanceDelta adds delta to the account balance, flooring at zero, and returns the new balance.
	ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error)

	// UpdateSettledTransaction persists status, posted_at, amount and new_balance of a settled row.
	UpdateSettledTransaction(ctx context.Context, txn domain.Transaction) error

	// FindLatestStatement returns the most recent statement of the account, or apperrors.ErrNotFound.
	FindLatestStatement(ctx context.Context, accountID string) (*domain.Statement, error)

	// FindStatementByBillingPeriod looks up the statement closing on billingPeriodEnd, or apperrors.ErrNotFound.
	FindStatementByBillingPeriod(ctx context.Context, accountID string, billingPeriodEnd time.Time) (*domain.Statement, error)

	// ListUnbilledPostedTransactions returns POSTED rows with no statement and posted_at <= postedUpTo, oldest first.
	ListUnbilledPostedTransactions(ctx context.Context, accountID string, postedUpTo time.Time) ([]domain.Transaction, error)

	// CreateStatement inserts a statement. Returns apperrors.ErrDuplicate when
	// (account_id, billing_period_end) already exists.
	CreateStatement(ctx context.Context, statement domain.Statement) error

	// LinkTransactionsToStatement sets statement_id on the given rows.
	LinkTransactionsToStatement(ctx context.Context, statementID string, transactionIDs []string) error
}

// AccountTxFunc runs with the account row locked. account is the snapshot read under the lock.
type AccountTxFunc func(ctx context.Context, tx LedgerTx, account domain.Account) error

// TransactionManager serializes all balance-affecting work per account.
type TransactionManager interface {
	// InAccountTx locks the account, runs fn and commits when fn returns nil.
	// Any error rolls everything back. Returns apperrors.ErrNotFound when the account does not exist.
	InAccountTx(ctx context.Context, accountID string, fn AccountTxFunc) error
}

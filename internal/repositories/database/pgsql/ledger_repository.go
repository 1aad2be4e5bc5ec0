package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerStore is the Postgres LedgerStore. Balance-affecting work runs
// inside InAccountTx, which holds the account row lock (SELECT ... FOR UPDATE)
// until commit.
type PgxLedgerStore struct {
	BaseRepository
	*PgxAccountRepository
	*PgxCardRepository
	*PgxTransactionRepository
	*PgxStatementRepository
}

// NewLedgerStore creates the Postgres-backed ledger store.
func NewLedgerStore(pool *pgxpool.Pool) *PgxLedgerStore {
	return &PgxLedgerStore{
		BaseRepository:           BaseRepository{Pool: pool},
		PgxAccountRepository:     newPgxAccountRepository(pool),
		PgxCardRepository:        newPgxCardRepository(pool),
		PgxTransactionRepository: newPgxTransactionRepository(pool),
		PgxStatementRepository:   newPgxStatementRepository(pool),
	}
}

var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

func (s *PgxLedgerStore) InAccountTx(ctx context.Context, accountID string, fn portsrepo.AccountTxFunc) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored once the transaction has committed.
	defer s.Rollback(context.WithoutCancel(ctx), tx)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	m, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		return notFoundOr(err, "failed to lock account "+accountID)
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx, accountID: accountID}, mapping.ToDomainAccount(m)); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// pgxLedgerTx runs every statement on the transaction opened by InAccountTx.
type pgxLedgerTx struct {
	tx        pgx.Tx
	accountID string
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND account_id = $2
		FOR UPDATE;
	`
	m, err := scanTransaction(t.tx.QueryRow(ctx, query, transactionID, t.accountID))
	if err != nil {
		return nil, notFoundOr(err, "failed to lock transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// FindOrCreateTransaction relies on the primary key: a conflicting insert is
// dropped and the committed row is read back instead.
func (t *pgxLedgerTx) FindOrCreateTransaction(ctx context.Context, txn domain.Transaction) (portsrepo.FindOrCreateResult, error) {
	m := mapping.ToModelTransaction(txn)
	insert := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (transaction_id) DO NOTHING
		RETURNING ` + transactionColumns + `;
	`
	created, err := scanTransaction(t.tx.QueryRow(ctx, insert,
		m.TransactionID,
		m.AccountID,
		m.CardID,
		m.MerchantCategory,
		m.MerchantAddress,
		m.Amount,
		m.AuthorizedAmount,
		m.Currency,
		m.TransactionType,
		m.Status,
		m.PreviousBalance,
		m.NewBalance,
		m.DeclineCode,
		m.DeclineReason,
		m.StatementID,
		m.CreatedAt,
		m.PostedAt,
	))
	if err == nil {
		return portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeCreated, Transaction: mapping.ToDomainTransaction(created)}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return portsrepo.FindOrCreateResult{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to insert transaction "+m.TransactionID, err)
	}

	existing, err := scanTransaction(t.tx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1;`, m.TransactionID))
	if err != nil {
		return portsrepo.FindOrCreateResult{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to read back transaction "+m.TransactionID, err)
	}
	return portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeFound, Transaction: mapping.ToDomainTransaction(existing)}, nil
}

func (t *pgxLedgerTx) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if accountID != t.accountID {
		return decimal.Zero, fmt.Errorf("balance update for account %s while lock is held on %s", accountID, t.accountID)
	}
	query := `
		UPDATE accounts
		SET current_balance = GREATEST(current_balance + $2, 0), last_updated_at = $3
		WHERE account_id = $1
		RETURNING current_balance;
	`
	var balance decimal.Decimal
	if err := t.tx.QueryRow(ctx, query, accountID, delta, time.Now().UTC()).Scan(&balance); err != nil {
		return decimal.Zero, notFoundOr(err, "failed to update balance of account "+accountID)
	}
	return balance, nil
}

func (t *pgxLedgerTx) UpdateSettledTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $2, amount = $3, new_balance = $4, posted_at = $5
		WHERE transaction_id = $1 AND account_id = $6;
	`
	tag, err := t.tx.Exec(ctx, query, txn.TransactionID, string(txn.Status), txn.Amount, txn.NewBalance, txn.PostedAt, t.accountID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update transaction "+txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (t *pgxLedgerTx) FindLatestStatement(ctx context.Context, accountID string) (*domain.Statement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE account_id = $1
		ORDER BY period_end DESC
		LIMIT 1;
	`
	m, err := scanStatement(t.tx.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find latest statement of account "+accountID)
	}
	statement := mapping.ToDomainStatement(m)
	return &statement, nil
}

func (t *pgxLedgerTx) FindStatementByBillingPeriod(ctx context.Context, accountID string, billingPeriodEnd time.Time) (*domain.Statement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE account_id = $1 AND billing_period_end = $2;
	`
	m, err := scanStatement(t.tx.QueryRow(ctx, query, accountID, billingPeriodEnd))
	if err != nil {
		return nil, notFoundOr(err, "failed to find statement of account "+accountID)
	}
	statement := mapping.ToDomainStatement(m)
	return &statement, nil
}

func (t *pgxLedgerTx) ListUnbilledPostedTransactions(ctx context.Context, accountID string, postedUpTo time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND status = $2 AND statement_id IS NULL AND posted_at <= $3
		ORDER BY created_at, transaction_id;
	`
	rows, err := t.tx.Query(ctx, query, accountID, string(domain.TxnPosted), postedUpTo)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query unbilled transactions of account "+accountID, err)
	}
	return collectTransactions(rows)
}

// CreateStatement inserts under a savepoint so a unique violation on
// (account_id, billing_period_end) leaves the account transaction usable.
func (t *pgxLedgerTx) CreateStatement(ctx context.Context, statement domain.Statement) error {
	m := mapping.ToModelStatement(statement)
	query := `
		INSERT INTO statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	savepoint, err := t.tx.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to open savepoint for statement "+m.StatementID, err)
	}
	_, err = savepoint.Exec(ctx, query,
		m.StatementID,
		m.AccountID,
		m.StatementDate,
		m.PeriodStart,
		m.PeriodEnd,
		m.BillingPeriodEnd,
		m.PreviousBalance,
		m.ClosingBalance,
		m.TotalPurchases,
		m.TotalPayments,
		m.TotalFees,
		m.TotalInterest,
		m.MinimumPaymentDue,
		m.PaymentDueDate,
		m.Status,
		m.TransactionCount,
		m.CreatedAt,
	)
	if err != nil {
		// Roll back to the savepoint; the enclosing transaction stays open.
		if rbErr := savepoint.Rollback(ctx); rbErr != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to roll back savepoint for statement "+m.StatementID, rbErr)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("statement for %s: %w", m.BillingPeriodEnd.Format(time.DateOnly), apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert statement "+m.StatementID, err)
	}
	if err := savepoint.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to release savepoint for statement "+m.StatementID, err)
	}
	return nil
}

func (t *pgxLedgerTx) LinkTransactionsToStatement(ctx context.Context, statementID string, transactionIDs []string) error {
	query := `
		UPDATE transactions
		SET statement_id = $1
		WHERE account_id = $2 AND transaction_id = ANY($3) AND statement_id IS NULL;
	`
	tag, err := t.tx.Exec(ctx, query, statementID, t.accountID, transactionIDs)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to link transactions to statement "+statementID, err)
	}
	if int(tag.RowsAffected()) != len(transactionIDs) {
		return fmt.Errorf("%w: linked %d of %d transactions to statement %s", apperrors.ErrConflict, tag.RowsAffected(), len(transactionIDs), statementID)
	}
	return nil
}

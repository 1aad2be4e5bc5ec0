package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// InAccountTx holds the account's mutex for the duration of fn. Staged writes
// are applied only when fn returns nil.
func (s *Store) InAccountTx(ctx context.Context, accountID string, fn portsrepo.AccountTxFunc) error {
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	tx := &ledgerTx{
		store:      s,
		accountID:  accountID,
		balance:    account.CurrentBalance,
		original:   account.CurrentBalance,
		txns:       make(map[string]domain.Transaction),
		links:      make(map[string]string),
		statements: make(map[string]domain.Statement),
	}
	if err := fn(ctx, tx, *account); err != nil {
		return err
	}
	return tx.commit()
}

// ledgerTx stages every write of one InAccountTx call.
type ledgerTx struct {
	store      *Store
	accountID  string
	balance    decimal.Decimal
	original   decimal.Decimal
	created    []string
	txns       map[string]domain.Transaction // inserted or updated rows
	links      map[string]string             // transaction id -> statement id
	statements map[string]domain.Statement
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) lookup(transactionID string) (domain.Transaction, bool) {
	if txn, ok := t.txns[transactionID]; ok {
		return txn, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	txn, ok := t.store.txns[transactionID]
	return txn, ok
}

func (t *ledgerTx) FindTransactionForUpdate(_ context.Context, transactionID string) (*domain.Transaction, error) {
	txn, ok := t.lookup(transactionID)
	if !ok || txn.AccountID != t.accountID {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (t *ledgerTx) FindOrCreateTransaction(_ context.Context, txn domain.Transaction) (portsrepo.FindOrCreateResult, error) {
	if existing, ok := t.lookup(txn.TransactionID); ok {
		return portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeFound, Transaction: existing}, nil
	}
	if txn.AccountID != t.accountID {
		return portsrepo.FindOrCreateResult{}, fmt.Errorf("transaction %s belongs to account %s, lock held on %s", txn.TransactionID, txn.AccountID, t.accountID)
	}
	t.txns[txn.TransactionID] = txn
	t.created = append(t.created, txn.TransactionID)
	return portsrepo.FindOrCreateResult{Outcome: portsrepo.OutcomeCreated, Transaction: txn}, nil
}

func (t *ledgerTx) ApplyBalanceDelta(_ context.Context, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if accountID != t.accountID {
		return decimal.Zero, fmt.Errorf("balance update for account %s while lock is held on %s", accountID, t.accountID)
	}
	t.balance = decimal.Max(decimal.Zero, t.balance.Add(delta))
	return t.balance, nil
}

func (t *ledgerTx) UpdateSettledTransaction(_ context.Context, txn domain.Transaction) error {
	if _, ok := t.lookup(txn.TransactionID); !ok {
		return apperrors.ErrNotFound
	}
	t.txns[txn.TransactionID] = txn
	return nil
}

func (t *ledgerTx) accountStatements() []domain.Statement {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	var out []domain.Statement
	for _, st := range t.store.statements {
		if st.AccountID == t.accountID {
			out = append(out, st)
		}
	}
	for _, st := range t.statements {
		out = append(out, st)
	}
	return out
}

func (t *ledgerTx) FindLatestStatement(_ context.Context, accountID string) (*domain.Statement, error) {
	var latest *domain.Statement
	for _, st := range t.accountStatements() {
		if latest == nil || st.PeriodEnd.After(latest.PeriodEnd) {
			latest = &st
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNotFound
	}
	return latest, nil
}

func (t *ledgerTx) FindStatementByBillingPeriod(_ context.Context, accountID string, billingPeriodEnd time.Time) (*domain.Statement, error) {
	for _, st := range t.accountStatements() {
		if st.BillingPeriodEnd.Equal(billingPeriodEnd) {
			return &st, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (t *ledgerTx) ListUnbilledPostedTransactions(_ context.Context, accountID string, postedUpTo time.Time) ([]domain.Transaction, error) {
	t.store.mu.RLock()
	merged := make(map[string]domain.Transaction)
	for id, txn := range t.store.txns {
		if txn.AccountID == t.accountID {
			merged[id] = txn
		}
	}
	t.store.mu.RUnlock()
	for id, txn := range t.txns {
		merged[id] = txn
	}

	var rows []domain.Transaction
	for id, txn := range merged {
		if txn.Status != domain.TxnPosted || txn.StatementID != nil || txn.PostedAt == nil {
			continue
		}
		if _, linked := t.links[id]; linked {
			continue
		}
		if txn.PostedAt.After(postedUpTo) {
			continue
		}
		rows = append(rows, txn)
	}
	sortChronologically(rows)
	return rows, nil
}

func (t *ledgerTx) CreateStatement(ctx context.Context, statement domain.Statement) error {
	if _, err := t.FindStatementByBillingPeriod(ctx, statement.AccountID, statement.BillingPeriodEnd); err == nil {
		return fmt.Errorf("statement for %s: %w", statement.BillingPeriodEnd.Format(time.DateOnly), apperrors.ErrDuplicate)
	}
	t.statements[statement.StatementID] = statement
	return nil
}

// LinkTransactionsToStatement only links unbilled rows of the locked account.
// Any other id fails the whole call with ErrConflict, as the SQL store does.
func (t *ledgerTx) LinkTransactionsToStatement(_ context.Context, statementID string, transactionIDs []string) error {
	seen := make(map[string]bool, len(transactionIDs))
	for _, id := range transactionIDs {
		txn, ok := t.lookup(id)
		if !ok || txn.AccountID != t.accountID {
			return fmt.Errorf("%w: transaction %s is not on account %s", apperrors.ErrConflict, id, t.accountID)
		}
		if _, staged := t.links[id]; staged || seen[id] || txn.StatementID != nil {
			return fmt.Errorf("%w: transaction %s is already on a statement", apperrors.ErrConflict, id)
		}
		seen[id] = true
	}
	for _, id := range transactionIDs {
		t.links[id] = statementID
	}
	return nil
}

func (t *ledgerTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ids are unique across accounts; a row created under another account's lock wins.
	for _, id := range t.created {
		if _, exists := s.txns[id]; exists {
			return fmt.Errorf("transaction %s: %w", id, apperrors.ErrDuplicate)
		}
	}
	for _, st := range t.statements {
		for _, existing := range s.statements {
			if existing.AccountID == st.AccountID && existing.BillingPeriodEnd.Equal(st.BillingPeriodEnd) {
				return fmt.Errorf("statement for %s: %w", st.BillingPeriodEnd.Format(time.DateOnly), apperrors.ErrDuplicate)
			}
		}
	}

	for id, txn := range t.txns {
		s.txns[id] = txn
	}
	for id, statementID := range t.links {
		txn, ok := s.txns[id]
		if !ok {
			continue
		}
		sid := statementID
		txn.StatementID = &sid
		s.txns[id] = txn
	}
	for id, st := range t.statements {
		s.statements[id] = st
	}
	if !t.balance.Equal(t.original) {
		account := s.accounts[t.accountID]
		account.CurrentBalance = t.balance
		account.LastUpdatedAt = time.Now().UTC()
		s.accounts[t.accountID] = account
	}
	return nil
}

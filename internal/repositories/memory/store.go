// Package memory is an in-process LedgerStore. Each account has its own mutex
// and all writes made inside InAccountTx are staged and applied only when the
// callback succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/utils/pagination"
)

// Store implements portsrepo.LedgerStore in memory.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]domain.Account
	cards      map[string]domain.Card
	txns       map[string]domain.Transaction
	statements map[string]domain.Statement

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]domain.Account),
		cards:      make(map[string]domain.Card),
		txns:       make(map[string]domain.Transaction),
		statements: make(map[string]domain.Statement),
		locks:      make(map[string]*sync.Mutex),
	}
}

var _ portsrepo.LedgerStore = (*Store)(nil)

func (s *Store) accountLock(accountID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	return l
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) ListActiveAccountsByClosingDay(_ context.Context, closingDay int) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Account
	for _, a := range s.accounts {
		if a.Status == domain.AccountActive && a.StatementClosingDay == closingDay {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (s *Store) SaveCard(_ context.Context, card domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[card.AccountID]; !ok {
		return fmt.Errorf("card %s references account %s: %w", card.CardID, card.AccountID, apperrors.ErrNotFound)
	}
	if _, ok := s.cards[card.CardID]; ok {
		return fmt.Errorf("card %s: %w", card.CardID, apperrors.ErrDuplicate)
	}
	s.cards[card.CardID] = card
	return nil
}

func (s *Store) FindCardByID(_ context.Context, cardID string) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[cardID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &card, nil
}

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// ListTransactionsByAccountID pages newest first by (created_at, transaction_id).
func (s *Store) ListTransactionsByAccountID(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursor = &c
	}

	s.mu.RLock()
	var rows []domain.Transaction
	for _, t := range s.txns {
		if t.AccountID != accountID {
			continue
		}
		if cursor != nil && !cursor.Before(t.CreatedAt, t.TransactionID) {
			continue
		}
		rows = append(rows, t)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].TransactionID > rows[j].TransactionID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	var next *string
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return rows, next, nil
}

func (s *Store) FindTransactionsByStatementID(_ context.Context, statementID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []domain.Transaction
	for _, t := range s.txns {
		if t.StatementID != nil && *t.StatementID == statementID {
			rows = append(rows, t)
		}
	}
	sortChronologically(rows)
	return rows, nil
}

func (s *Store) FindStatementByID(_ context.Context, statementID string) (*domain.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statements[statementID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &st, nil
}

func (s *Store) ListStatementsByAccountID(_ context.Context, accountID string) ([]domain.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Statement
	for _, st := range s.statements {
		if st.AccountID == accountID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillingPeriodEnd.After(out[j].BillingPeriodEnd) })
	return out, nil
}

func sortChronologically(rows []domain.Transaction) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].TransactionID < rows[j].TransactionID
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
}

// SetAccountStatus changes an account's status. Status changes are owned by
// account servicing, outside the engines.
func (s *Store) SetAccountStatus(_ context.Context, accountID string, status domain.AccountStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidation, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Status = status
	s.accounts[accountID] = account
	return nil
}

package repositories

import (
	"context"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
)

// TransactionReader defines read operations for ledger rows
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction without taking any lock.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a page of an account's transactions, newest first, using token-based pagination.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindTransactionsByStatementID retrieves the rows rolled into a statement.
	FindTransactionsByStatementID(ctx context.Context, statementID string) ([]domain.Transaction, error)
}

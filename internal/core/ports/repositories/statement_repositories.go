package repositories

import (
	"context"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
)

// StatementReader defines read operations for statements
type StatementReader interface {
	FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error)

	// ListStatementsByAccountID returns statements newest first.
	ListStatementsByAccountID(ctx context.Context, accountID string) ([]domain.Statement, error)
}

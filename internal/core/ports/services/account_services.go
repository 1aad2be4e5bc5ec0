package services

import (
	"context"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/dto"
)

// AccountReaderSvc defines read operations on accounts and their history
type AccountReaderSvc interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListStatements(ctx context.Context, accountID string) ([]domain.Statement, error)
	GetStatement(ctx context.Context, statementID string) (*domain.Statement, []domain.Transaction, error)
}

// AccountWriterSvc defines account and card onboarding
type AccountWriterSvc interface {
	OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error)
	IssueCard(ctx context.Context, accountID string, req dto.IssueCardRequest) (*domain.Card, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

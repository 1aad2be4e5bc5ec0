package handlers_test

import (
	"context"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AuthorizationService ---
type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) Authorize(ctx context.Context, req dto.AuthorizeRequest) (*domain.AuthorizationDecision, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationDecision), args.Error(1)
}

var _ portssvc.AuthorizationSvc = (*MockAuthorizationService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, transactionID string, finalAmount *decimal.Decimal) (*domain.SettlementOutcome, error) {
	args := m.Called(ctx, transactionID, finalAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementOutcome), args.Error(1)
}

func (m *MockSettlementService) SettleBatch(ctx context.Context, reqs []dto.SettleRequest) (*domain.BatchSettlementResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSettlementResult), args.Error(1)
}

var _ portssvc.SettlementSvc = (*MockSettlementService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ApplyPayment(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.PaymentResult, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

var _ portssvc.PaymentSvc = (*MockPaymentService)(nil)

// --- Mock StatementService ---
type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) GenerateForPeriod(ctx context.Context) (*domain.StatementBatchResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementBatchResult), args.Error(1)
}

func (m *MockStatementService) GenerateForAccount(ctx context.Context, accountID string) (*domain.StatementOutcome, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementOutcome), args.Error(1)
}

var _ portssvc.StatementSvc = (*MockStatementService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) IssueCard(ctx context.Context, accountID string, req dto.IssueCardRequest) (*domain.Card, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockAccountService) ListStatements(ctx context.Context, accountID string) ([]domain.Statement, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Statement), args.Error(1)
}

func (m *MockAccountService) GetStatement(ctx context.Context, statementID string) (*domain.Statement, []domain.Transaction, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Statement), args.Get(1).([]domain.Transaction), args.Error(2)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

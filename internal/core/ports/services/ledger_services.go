package services

import (
	"context"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AuthorizationSvc decides card authorizations.
type AuthorizationSvc interface {
	// Authorize approves or declines a charge. Declines are returned in the
	// decision; an error means an infrastructure failure.
	// Calling it twice with the same request id never charges twice.
	Authorize(ctx context.Context, req dto.AuthorizeRequest) (*domain.AuthorizationDecision, error)
}

// SettlementSvc moves pending authorizations to posted.
type SettlementSvc interface {
	// Settle posts a PENDING transaction. finalAmount, when non-nil, replaces
	// the authorized amount and the balance is adjusted by the difference.
	Settle(ctx context.Context, transactionID string, finalAmount *decimal.Decimal) (*domain.SettlementOutcome, error)

	// SettleBatch settles each item independently.
	SettleBatch(ctx context.Context, reqs []dto.SettleRequest) (*domain.BatchSettlementResult, error)
}

// PaymentSvc applies cardholder payments.
type PaymentSvc interface {
	ApplyPayment(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.PaymentResult, error)
}

// StatementSvc generates billing statements.
type StatementSvc interface {
	// GenerateForPeriod bills every ACTIVE account whose closing day is today.
	GenerateForPeriod(ctx context.Context) (*domain.StatementBatchResult, error)

	// GenerateForAccount bills a single account for the current billing period.
	GenerateForAccount(ctx context.Context, accountID string) (*domain.StatementOutcome, error)
}

package dto

import (
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementResponse defines the data returned for a statement.
type StatementResponse struct {
	StatementID       string                 `json:"statementID"`
	AccountID         string                 `json:"accountID"`
	StatementDate     time.Time              `json:"statementDate"`
	PeriodStart       time.Time              `json:"periodStart"`
	PeriodEnd         time.Time              `json:"periodEnd"`
	BillingPeriodEnd  time.Time              `json:"billingPeriodEnd"`
	PreviousBalance   decimal.Decimal        `json:"previousBalance"`
	ClosingBalance    decimal.Decimal        `json:"closingBalance"`
	TotalPurchases    decimal.Decimal        `json:"totalPurchases"`
	TotalPayments     decimal.Decimal        `json:"totalPayments"`
	TotalFees         decimal.Decimal        `json:"totalFees"`
	TotalInterest     decimal.Decimal        `json:"totalInterest"`
	MinimumPaymentDue decimal.Decimal        `json:"minimumPaymentDue"`
	PaymentDueDate    time.Time              `json:"paymentDueDate"`
	Status            domain.StatementStatus `json:"status"`
	TransactionCount  int                    `json:"transactionCount"`
	CreatedAt         time.Time              `json:"createdAt"`
}

func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		StatementID:       s.StatementID,
		AccountID:         s.AccountID,
		StatementDate:     s.StatementDate,
		PeriodStart:       s.PeriodStart,
		PeriodEnd:         s.PeriodEnd,
		BillingPeriodEnd:  s.BillingPeriodEnd,
		PreviousBalance:   s.PreviousBalance,
		ClosingBalance:    s.ClosingBalance,
		TotalPurchases:    s.TotalPurchases,
		TotalPayments:     s.TotalPayments,
		TotalFees:         s.TotalFees,
		TotalInterest:     s.TotalInterest,
		MinimumPaymentDue: s.MinimumPaymentDue,
		PaymentDueDate:    s.PaymentDueDate,
		Status:            s.Status,
		TransactionCount:  s.TransactionCount,
		CreatedAt:         s.CreatedAt,
	}
}

func ToListStatementResponse(statements []domain.Statement) []StatementResponse {
	res := make([]StatementResponse, len(statements))
	for i := range statements {
		res[i] = ToStatementResponse(&statements[i])
	}
	return res
}

// GetStatementResponse is a statement together with the rows it rolled up.
type GetStatementResponse struct {
	Statement    StatementResponse     `json:"statement"`
	Transactions []TransactionResponse `json:"transactions"`
}

// StatementOutcomeResponse is returned by single-account generation.
type StatementOutcomeResponse struct {
	AccountID  string             `json:"account_id"`
	Generated  bool               `json:"generated"`
	Statement  *StatementResponse `json:"statement,omitempty"`
	ReasonCode domain.DeclineCode `json:"reason_code,omitempty"`
	Reason     string             `json:"reason,omitempty"`
}

func ToStatementOutcomeResponse(o *domain.StatementOutcome) StatementOutcomeResponse {
	res := StatementOutcomeResponse{AccountID: o.AccountID, Generated: o.Generated}
	if o.Statement != nil {
		s := ToStatementResponse(o.Statement)
		res.Statement = &s
	}
	if o.Skip != nil {
		res.ReasonCode = o.Skip.Code
		res.Reason = o.Skip.Detail
	}
	return res
}

// GenerateStatementsResponse is the tally of a billing run.
type GenerateStatementsResponse struct {
	GeneratedCount int `json:"generated_count"`
	SkippedCount   int `json:"skipped_count"`
	FailedCount    int `json:"failed_count"`
}

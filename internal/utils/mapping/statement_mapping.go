package mapping

import (
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/models"
)

func ToModelStatement(d domain.Statement) models.Statement {
	return models.Statement{
		StatementID:       d.StatementID,
		AccountID:         d.AccountID,
		StatementDate:     d.StatementDate,
		PeriodStart:       d.PeriodStart,
		PeriodEnd:         d.PeriodEnd,
		BillingPeriodEnd:  d.BillingPeriodEnd,
		PreviousBalance:   d.PreviousBalance,
		ClosingBalance:    d.ClosingBalance,
		TotalPurchases:    d.TotalPurchases,
		TotalPayments:     d.TotalPayments,
		TotalFees:         d.TotalFees,
		TotalInterest:     d.TotalInterest,
		MinimumPaymentDue: d.MinimumPaymentDue,
		PaymentDueDate:    d.PaymentDueDate,
		Status:            string(d.Status),
		TransactionCount:  d.TransactionCount,
		CreatedAt:         d.CreatedAt,
	}
}

func ToDomainStatement(m models.Statement) domain.Statement {
	return domain.Statement{
		StatementID:       m.StatementID,
		AccountID:         m.AccountID,
		StatementDate:     m.StatementDate,
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
		BillingPeriodEnd:  m.BillingPeriodEnd,
		PreviousBalance:   m.PreviousBalance,
		ClosingBalance:    m.ClosingBalance,
		TotalPurchases:    m.TotalPurchases,
		TotalPayments:     m.TotalPayments,
		TotalFees:         m.TotalFees,
		TotalInterest:     m.TotalInterest,
		MinimumPaymentDue: m.MinimumPaymentDue,
		PaymentDueDate:    m.PaymentDueDate,
		Status:            domain.StatementStatus(m.Status),
		TransactionCount:  m.TransactionCount,
		CreatedAt:         m.CreatedAt,
	}
}

func ToDomainStatementSlice(ms []models.Statement) []domain.Statement {
	ds := make([]domain.Statement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatement(m)
	}
	return ds
}

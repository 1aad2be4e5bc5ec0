package mapping

import (
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/models"
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:    d.TransactionID,
		AccountID:        d.AccountID,
		CardID:           d.CardID,
		MerchantCategory: optionalString(d.MerchantCategory),
		MerchantAddress:  optionalString(d.MerchantAddress),
		Amount:           d.Amount,
		AuthorizedAmount: d.AuthorizedAmount,
		Currency:         d.Currency,
		TransactionType:  string(d.Type),
		Status:           string(d.Status),
		PreviousBalance:  d.PreviousBalance,
		NewBalance:       d.NewBalance,
		DeclineReason:    optionalString(d.DeclineReason),
		StatementID:      d.StatementID,
		CreatedAt:        d.CreatedAt,
		PostedAt:         d.PostedAt,
	}
	if d.DeclineCode != nil {
		code := string(*d.DeclineCode)
		m.DeclineCode = &code
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:    m.TransactionID,
		AccountID:        m.AccountID,
		CardID:           m.CardID,
		MerchantCategory: derefString(m.MerchantCategory),
		MerchantAddress:  derefString(m.MerchantAddress),
		Amount:           m.Amount,
		AuthorizedAmount: m.AuthorizedAmount,
		Currency:         m.Currency,
		Type:             domain.TransactionType(m.TransactionType),
		Status:           domain.TransactionStatus(m.Status),
		PreviousBalance:  m.PreviousBalance,
		NewBalance:       m.NewBalance,
		DeclineReason:    derefString(m.DeclineReason),
		StatementID:      m.StatementID,
		CreatedAt:        m.CreatedAt,
		PostedAt:         m.PostedAt,
	}
	if m.DeclineCode != nil {
		code := domain.DeclineCode(*m.DeclineCode)
		d.DeclineCode = &code
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

package mapping

import (
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/models"
	"github.com/shopspring/decimal"
)

func ToModelCard(d domain.Card) models.Card {
	m := models.Card{
		CardID:      d.CardID,
		AccountID:   d.AccountID,
		LastFour:    d.LastFour,
		NumberHash:  d.NumberHash,
		ExpiryMonth: d.ExpiryMonth,
		ExpiryYear:  d.ExpiryYear,
		CardType:    string(d.CardType),
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.SpendingLimit != nil {
		m.SpendingLimit = decimal.NewNullDecimal(*d.SpendingLimit)
	}
	return m
}

func ToDomainCard(m models.Card) domain.Card {
	d := domain.Card{
		CardID:      m.CardID,
		AccountID:   m.AccountID,
		LastFour:    m.LastFour,
		NumberHash:  m.NumberHash,
		ExpiryMonth: m.ExpiryMonth,
		ExpiryYear:  m.ExpiryYear,
		CardType:    domain.CardType(m.CardType),
		Status:      domain.CardStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.SpendingLimit.Valid {
		limit := m.SpendingLimit.Decimal
		d.SpendingLimit = &limit
	}
	return d
}

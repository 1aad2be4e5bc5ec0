package mapping

import (
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		UserID:              d.UserID,
		CreditLimit:         d.CreditLimit,
		CurrentBalance:      d.CurrentBalance,
		APR:                 d.APR,
		StatementClosingDay: d.StatementClosingDay,
		PaymentDueDays:      d.PaymentDueDays,
		Status:              string(d.Status),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		UserID:              m.UserID,
		CreditLimit:         m.CreditLimit,
		CurrentBalance:      m.CurrentBalance,
		APR:                 m.APR,
		StatementClosingDay: m.StatementClosingDay,
		PaymentDueDays:      m.PaymentDueDays,
		Status:              domain.AccountStatus(m.Status),
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

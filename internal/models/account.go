package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID           string          `db:"account_id"`
	UserID              string          `db:"user_id"`
	CreditLimit         decimal.Decimal `db:"credit_limit"`
	CurrentBalance      decimal.Decimal `db:"current_balance"`
	APR                 decimal.Decimal `db:"apr"`
	StatementClosingDay int             `db:"statement_closing_day"`
	PaymentDueDays      int             `db:"payment_due_days"`
	Status              string          `db:"status"`
	AuditFields
}

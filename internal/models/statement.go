package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a row of the statements table. (account_id, billing_period_end) is unique.
type Statement struct {
	StatementID       string          `db:"statement_id"`
	AccountID         string          `db:"account_id"`
	StatementDate     time.Time       `db:"statement_date"`
	PeriodStart       time.Time       `db:"period_start"`
	PeriodEnd         time.Time       `db:"period_end"`
	BillingPeriodEnd  time.Time       `db:"billing_period_end"`
	PreviousBalance   decimal.Decimal `db:"previous_balance"`
	ClosingBalance    decimal.Decimal `db:"closing_balance"`
	TotalPurchases    decimal.Decimal `db:"total_purchases"`
	TotalPayments     decimal.Decimal `db:"total_payments"`
	TotalFees         decimal.Decimal `db:"total_fees"`
	TotalInterest     decimal.Decimal `db:"total_interest"`
	MinimumPaymentDue decimal.Decimal `db:"minimum_payment_due"`
	PaymentDueDate    time.Time       `db:"payment_due_date"`
	Status            string          `db:"status"`
	TransactionCount  int             `db:"transaction_count"`
	CreatedAt         time.Time       `db:"created_at"`
}

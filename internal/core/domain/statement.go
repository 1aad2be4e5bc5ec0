package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatementStatus string

const (
	StatementGenerated StatementStatus = "GENERATED"
	StatementSent      StatementStatus = "SENT"
	StatementPaid      StatementStatus = "PAID"
	StatementOverdue   StatementStatus = "OVERDUE"
)

func (s StatementStatus) IsValid() bool {
	switch s {
	case StatementGenerated, StatementSent, StatementPaid, StatementOverdue:
		return true
	}
	return false
}

// Statement is the billing roll-up for one account and one billing period.
// (AccountID, BillingPeriodEnd) is unique.
type Statement struct {
	StatementID       string          `json:"statementID"`
	AccountID         string          `json:"accountID"`
	StatementDate     time.Time       `json:"statementDate"`
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	BillingPeriodEnd  time.Time       `json:"billingPeriodEnd"`
	PreviousBalance   decimal.Decimal `json:"previousBalance"`
	ClosingBalance    decimal.Decimal `json:"closingBalance"`
	TotalPurchases    decimal.Decimal `json:"totalPurchases"`
	TotalPayments     decimal.Decimal `json:"totalPayments"`
	TotalFees         decimal.Decimal `json:"totalFees"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
	MinimumPaymentDue decimal.Decimal `json:"minimumPaymentDue"`
	PaymentDueDate    time.Time       `json:"paymentDueDate"`
	Status            StatementStatus `json:"status"`
	TransactionCount  int             `json:"transactionCount"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// StatementTotals are the per-type sums of the rows rolled into a statement.
type StatementTotals struct {
	Purchases decimal.Decimal
	Payments  decimal.Decimal // absolute value
	Fees      decimal.Decimal
	Interest  decimal.Decimal
	Count     int
}

// SummarizeTransactions buckets posted rows by type. Refunds and adjustments
// are counted but not bucketed.
func SummarizeTransactions(txns []Transaction) StatementTotals {
	totals := StatementTotals{
		Purchases: decimal.Zero,
		Payments:  decimal.Zero,
		Fees:      decimal.Zero,
		Interest:  decimal.Zero,
	}
	for _, t := range txns {
		switch t.Type {
		case TxnPurchase:
			totals.Purchases = totals.Purchases.Add(t.Amount)
		case TxnPayment:
			totals.Payments = totals.Payments.Add(t.Amount.Abs())
		case TxnFee:
			totals.Fees = totals.Fees.Add(t.Amount)
		case TxnInterest:
			totals.Interest = totals.Interest.Add(t.Amount)
		}
		totals.Count++
	}
	return totals
}

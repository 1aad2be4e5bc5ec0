package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID    string          `db:"transaction_id"`
	AccountID        string          `db:"account_id"`
	CardID           *string         `db:"card_id"`
	MerchantCategory *string         `db:"merchant_category"`
	MerchantAddress  *string         `db:"merchant_address"`
	Amount           decimal.Decimal `db:"amount"`
	AuthorizedAmount decimal.Decimal `db:"authorized_amount"`
	Currency         string          `db:"currency"`
	TransactionType  string          `db:"transaction_type"`
	Status           string          `db:"status"`
	PreviousBalance  decimal.Decimal `db:"previous_balance"`
	NewBalance       decimal.Decimal `db:"new_balance"`
	DeclineCode      *string         `db:"decline_code"`
	DeclineReason    *string         `db:"decline_reason"`
	StatementID      *string         `db:"statement_id"`
	CreatedAt        time.Time       `db:"created_at"`
	PostedAt         *time.Time      `db:"posted_at"`
}

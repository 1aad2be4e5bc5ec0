package models

import "github.com/shopspring/decimal"

// Card is a row of the cards table. SpendingLimit is NULL when the card has no own limit.
type Card struct {
	CardID        string              `db:"card_id"`
	AccountID     string              `db:"account_id"`
	LastFour      string              `db:"last_four"`
	NumberHash    string              `db:"number_hash"`
	ExpiryMonth   int                 `db:"expiry_month"`
	ExpiryYear    int                 `db:"expiry_year"`
	CardType      string              `db:"card_type"`
	Status        string              `db:"status"`
	SpendingLimit decimal.NullDecimal `db:"spending_limit"`
	AuditFields
}

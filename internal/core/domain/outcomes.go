package domain

import "github.com/shopspring/decimal"

// AuthorizationDecision is the result of an authorization request. A decline
// is a value, not an error.
type AuthorizationDecision struct {
	Approved    bool         `json:"approved"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Decline     *Decline     `json:"decline,omitempty"`
	// Duplicate is set when the request id had already been processed.
	Duplicate bool `json:"duplicate"`
}

// SettlementOutcome is the result of settling one pending transaction.
type SettlementOutcome struct {
	TransactionID string       `json:"transactionID"`
	Settled       bool         `json:"settled"`
	Transaction   *Transaction `json:"transaction,omitempty"`
	Rejection     *Decline     `json:"rejection,omitempty"`
}

// BatchSettlementResult tallies a bulk settlement. Items are independent.
type BatchSettlementResult struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []SettlementOutcome `json:"results"`
}

// PaymentResult is the result of applying a payment.
type PaymentResult struct {
	Transaction     Transaction     `json:"transaction"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
}

// StatementOutcome is the result of generating a statement for one account.
type StatementOutcome struct {
	AccountID string     `json:"accountID"`
	Generated bool       `json:"generated"`
	Statement *Statement `json:"statement,omitempty"`
	Skip      *Decline   `json:"skip,omitempty"`
}

// StatementBatchResult tallies a billing run.
type StatementBatchResult struct {
	GeneratedCount int `json:"generatedCount"`
	SkippedCount   int `json:"skippedCount"`
	FailedCount    int `json:"failedCount"`
}

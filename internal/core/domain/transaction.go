package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnPurchase   TransactionType = "PURCHASE"
	TxnPayment    TransactionType = "PAYMENT"
	TxnRefund     TransactionType = "REFUND"
	TxnFee        TransactionType = "FEE"
	TxnInterest   TransactionType = "INTEREST"
	TxnAdjustment TransactionType = "ADJUSTMENT"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TxnPurchase, TxnPayment, TxnRefund, TxnFee, TxnInterest, TxnAdjustment:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TxnPending  TransactionStatus = "PENDING"
	TxnPosted   TransactionStatus = "POSTED"
	TxnDeclined TransactionStatus = "DECLINED"
	TxnReversed TransactionStatus = "REVERSED"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TxnPending, TxnPosted, TxnDeclined, TxnReversed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
// PENDING is the only non-terminal state.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != TxnPending {
		return false
	}
	return next == TxnPosted || next == TxnReversed
}

// IsApproved reports whether a transaction in this status counts as an approved authorization.
func (s TransactionStatus) IsApproved() bool {
	return s == TxnPending || s == TxnPosted
}

// Transaction is an append-only ledger row. Amount is signed: charges are
// positive and payments negative. For every applied row
// NewBalance - PreviousBalance == Amount, except an overpayment where the
// balance floors at zero. Declined rows carry PreviousBalance == NewBalance.
type Transaction struct {
	TransactionID    string            `json:"transactionID"`
	AccountID        string            `json:"accountID"`
	CardID           *string           `json:"cardID,omitempty"`
	MerchantCategory string            `json:"merchantCategory,omitempty"`
	MerchantAddress  string            `json:"merchantAddress,omitempty"`
	Amount           decimal.Decimal   `json:"amount"`
	AuthorizedAmount decimal.Decimal   `json:"authorizedAmount"`
	Currency         string            `json:"currency"`
	Type             TransactionType   `json:"type"`
	Status           TransactionStatus `json:"status"`
	PreviousBalance  decimal.Decimal   `json:"previousBalance"`
	NewBalance       decimal.Decimal   `json:"newBalance"`
	DeclineCode      *DeclineCode      `json:"declineCode,omitempty"`
	DeclineReason    string            `json:"declineReason,omitempty"`
	StatementID      *string           `json:"statementID,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	PostedAt         *time.Time        `json:"postedAt,omitempty"`
}

// BalanceDelta is the change this row applied to the account balance.
func (t Transaction) BalanceDelta() decimal.Decimal {
	return t.NewBalance.Sub(t.PreviousBalance)
}

// Decline returns the structured decline reason of a declined row, or nil.
func (t Transaction) Decline() *Decline {
	if t.DeclineCode == nil {
		return nil
	}
	return &Decline{Code: *t.DeclineCode, Detail: t.DeclineReason}
}

// IsBilled reports whether the row has already been rolled into a statement.
func (t Transaction) IsBilled() bool {
	return t.StatementID != nil
}

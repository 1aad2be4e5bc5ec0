package dto

import (
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a ledger row.
type TransactionResponse struct {
	TransactionID    string                   `json:"transactionID"`
	AccountID        string                   `json:"accountID"`
	CardID           *string                  `json:"cardID,omitempty"`
	MerchantCategory string                   `json:"merchantCategory,omitempty"`
	MerchantAddress  string                   `json:"merchantAddress,omitempty"`
	Amount           decimal.Decimal          `json:"amount"`
	AuthorizedAmount decimal.Decimal          `json:"authorizedAmount"`
	Currency         string                   `json:"currency"`
	Type             domain.TransactionType   `json:"type"`
	Status           domain.TransactionStatus `json:"status"`
	PreviousBalance  decimal.Decimal          `json:"previousBalance"`
	NewBalance       decimal.Decimal          `json:"newBalance"`
	DeclineCode      *domain.DeclineCode      `json:"declineCode,omitempty"`
	DeclineReason    string                   `json:"declineReason,omitempty"`
	StatementID      *string                  `json:"statementID,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	PostedAt         *time.Time               `json:"postedAt,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    txn.TransactionID,
		AccountID:        txn.AccountID,
		CardID:           txn.CardID,
		MerchantCategory: txn.MerchantCategory,
		MerchantAddress:  txn.MerchantAddress,
		Amount:           txn.Amount,
		AuthorizedAmount: txn.AuthorizedAmount,
		Currency:         txn.Currency,
		Type:             txn.Type,
		Status:           txn.Status,
		PreviousBalance:  txn.PreviousBalance,
		NewBalance:       txn.NewBalance,
		DeclineCode:      txn.DeclineCode,
		DeclineReason:    txn.DeclineReason,
		StatementID:      txn.StatementID,
		CreatedAt:        txn.CreatedAt,
		PostedAt:         txn.PostedAt,
	}
}

func toTransactionResponsePtr(txn *domain.Transaction) *TransactionResponse {
	if txn == nil {
		return nil
	}
	res := ToTransactionResponse(txn)
	return &res
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing an account's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

package dto

import (
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest defines the data needed to open a credit account.
type OpenAccountRequest struct {
	UserID              string          `json:"userID" binding:"required"`
	CreditLimit         decimal.Decimal `json:"creditLimit"`
	APR                 decimal.Decimal `json:"apr"`
	StatementClosingDay int             `json:"statementClosingDay" binding:"required,min=1,max=28"`
	PaymentDueDays      int             `json:"paymentDueDays" binding:"min=0,max=60"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID           string               `json:"accountID"`
	UserID              string               `json:"userID"`
	CreditLimit         decimal.Decimal      `json:"creditLimit"`
	CurrentBalance      decimal.Decimal      `json:"currentBalance"`
	AvailableCredit     decimal.Decimal      `json:"availableCredit"`
	APR                 decimal.Decimal      `json:"apr"`
	StatementClosingDay int                  `json:"statementClosingDay"`
	PaymentDueDays      int                  `json:"paymentDueDays"`
	Status              domain.AccountStatus `json:"status"`
	CreatedAt           time.Time            `json:"createdAt"`
	LastUpdatedAt       time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:           acc.AccountID,
		UserID:              acc.UserID,
		CreditLimit:         acc.CreditLimit,
		CurrentBalance:      acc.CurrentBalance,
		AvailableCredit:     acc.AvailableCredit(),
		APR:                 acc.APR,
		StatementClosingDay: acc.StatementClosingDay,
		PaymentDueDays:      acc.PaymentDueDays,
		Status:              acc.Status,
		CreatedAt:           acc.CreatedAt,
		LastUpdatedAt:       acc.LastUpdatedAt,
	}
}

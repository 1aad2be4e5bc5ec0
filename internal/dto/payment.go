package dto

import (
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentRequest carries a payment amount in currency units.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PaymentResponse struct {
	Success         bool                `json:"success"`
	NewBalance      decimal.Decimal     `json:"new_balance"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	PreviousBalance decimal.Decimal     `json:"previous_balance"`
	Transaction     TransactionResponse `json:"transaction"`
}

func ToPaymentResponse(r *domain.PaymentResult) PaymentResponse {
	return PaymentResponse{
		Success:         true,
		NewBalance:      r.NewBalance,
		AmountPaid:      r.AmountPaid,
		PreviousBalance: r.PreviousBalance,
		Transaction:     ToTransactionResponse(&r.Transaction),
	}
}

package dto

import "github.com/SscSPs/credit_ledger/internal/core/domain"

// SettleRequest is a single settlement. FinalAmount is in minor units and
// present only when the captured amount differs from the authorization.
type SettleRequest struct {
	TransactionID string `json:"transaction_id" binding:"required" validate:"required"`
	FinalAmount   *int64 `json:"final_amount" binding:"omitempty,gt=0" validate:"omitempty,gt=0"`
}

// SettleBatchRequest carries many settlements. Items are validated one by one
// by the settlement engine so a bad item does not fail the batch.
type SettleBatchRequest struct {
	Settlements []SettleRequest `json:"settlements" binding:"required,min=1"`
}

type SettleResponse struct {
	TransactionID string               `json:"transaction_id"`
	Settled       bool                 `json:"settled"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
	ReasonCode    domain.DeclineCode   `json:"reason_code,omitempty"`
	Reason        string               `json:"reason,omitempty"`
}

type SettleBatchResponse struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []SettleResponse `json:"results"`
}

func ToSettleResponse(o *domain.SettlementOutcome) SettleResponse {
	res := SettleResponse{
		TransactionID: o.TransactionID,
		Settled:       o.Settled,
		Transaction:   toTransactionResponsePtr(o.Transaction),
	}
	if o.Rejection != nil {
		res.ReasonCode = o.Rejection.Code
		res.Reason = o.Rejection.Detail
	}
	return res
}

func ToSettleBatchResponse(r *domain.BatchSettlementResult) SettleBatchResponse {
	results := make([]SettleResponse, len(r.Results))
	for i := range r.Results {
		results[i] = ToSettleResponse(&r.Results[i])
	}
	return SettleBatchResponse{Succeeded: r.Succeeded, Failed: r.Failed, Results: results}
}

package dto

import "github.com/SscSPs/credit_ledger/internal/core/domain"

// MerchantData is the merchant block of a card-network authorization request.
type MerchantData struct {
	Category string `json:"category"`
	Address  string `json:"address"`
}

// AuthorizeRequest is the card-network authorization webhook payload.
// Amount is in minor units.
type AuthorizeRequest struct {
	ID           string       `json:"id" binding:"required"`
	CardID       string       `json:"card_id" binding:"required"`
	Amount       int64        `json:"amount" binding:"required,gt=0"`
	Currency     string       `json:"currency" binding:"omitempty,len=3"`
	MerchantData MerchantData `json:"merchant_data"`
}

// AuthorizeResponse is returned to the card network.
type AuthorizeResponse struct {
	Approved    bool                 `json:"approved"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	DeclineCode domain.DeclineCode   `json:"decline_code,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Duplicate   bool                 `json:"duplicate,omitempty"`
}

func ToAuthorizeResponse(d *domain.AuthorizationDecision) AuthorizeResponse {
	res := AuthorizeResponse{
		Approved:    d.Approved,
		Transaction: toTransactionResponsePtr(d.Transaction),
		Duplicate:   d.Duplicate,
	}
	if d.Decline != nil {
		res.DeclineCode = d.Decline.Code
		res.Reason = d.Decline.Detail
	}
	return res
}

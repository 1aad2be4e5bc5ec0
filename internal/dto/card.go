package dto

import (
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IssueCardRequest defines the data needed to attach a card to an account.
// CardNumber is fingerprinted on arrival and never stored. CardID is the
// network-side identifier when the issuer processor assigns one.
type IssueCardRequest struct {
	CardID        string           `json:"cardID" binding:"omitempty,max=64"`
	CardNumber    string           `json:"cardNumber" binding:"required,numeric,min=12,max=19"`
	ExpiryMonth   int              `json:"expiryMonth" binding:"required,min=1,max=12"`
	ExpiryYear    int              `json:"expiryYear" binding:"required,min=2000,max=2100"`
	CardType      domain.CardType  `json:"cardType" binding:"omitempty,oneof=PHYSICAL VIRTUAL"`
	SpendingLimit *decimal.Decimal `json:"spendingLimit,omitempty"`
}

type CardResponse struct {
	CardID        string            `json:"cardID"`
	AccountID     string            `json:"accountID"`
	LastFour      string            `json:"lastFour"`
	ExpiryMonth   int               `json:"expiryMonth"`
	ExpiryYear    int               `json:"expiryYear"`
	CardType      domain.CardType   `json:"cardType"`
	Status        domain.CardStatus `json:"status"`
	SpendingLimit *decimal.Decimal  `json:"spendingLimit,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func ToCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		CardID:        card.CardID,
		AccountID:     card.AccountID,
		LastFour:      card.LastFour,
		ExpiryMonth:   card.ExpiryMonth,
		ExpiryYear:    card.ExpiryYear,
		CardType:      card.CardType,
		Status:        card.Status,
		SpendingLimit: card.SpendingLimit,
		CreatedAt:     card.CreatedAt,
	}
}

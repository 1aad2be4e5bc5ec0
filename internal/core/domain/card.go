package domain

import "github.com/shopspring/decimal"

// CardStatus is the lifecycle state of a card. Only ACTIVE cards can be charged.
type CardStatus string

const (
	CardActive CardStatus = "ACTIVE"
	CardFrozen CardStatus = "FROZEN"
	CardLost   CardStatus = "LOST"
	CardStolen CardStatus = "STOLEN"
	CardClosed CardStatus = "CLOSED"
)

func (s CardStatus) IsValid() bool {
	switch s {
	case CardActive, CardFrozen, CardLost, CardStolen, CardClosed:
		return true
	}
	return false
}

type CardType string

const (
	CardPhysical CardType = "PHYSICAL"
	CardVirtual  CardType = "VIRTUAL"
)

// Card is a payment instrument attached to exactly one account.
// The core never mutates cards.
type Card struct {
	CardID        string           `json:"cardID"`
	AccountID     string           `json:"accountID"`
	LastFour      string           `json:"lastFour"`
	NumberHash    string           `json:"-"`
	ExpiryMonth   int              `json:"expiryMonth"`
	ExpiryYear    int              `json:"expiryYear"`
	CardType      CardType         `json:"cardType"`
	Status        CardStatus       `json:"status"`
	SpendingLimit *decimal.Decimal `json:"spendingLimit,omitempty"`
	AuditFields
}

func (c Card) IsActive() bool {
	return c.Status == CardActive
}

// ExceedsSpendingLimit reports whether a single charge of amount is above the card's own cap.
func (c Card) ExceedsSpendingLimit(amount decimal.Decimal) bool {
	return c.SpendingLimit != nil && amount.GreaterThan(*c.SpendingLimit)
}

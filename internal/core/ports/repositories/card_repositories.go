package repositories

import (
	"context"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
)

// CardReader defines read operations for card data
type CardReader interface {
	// FindCardByID retrieves a card, or apperrors.ErrNotFound.
	FindCardByID(ctx context.Context, cardID string) (*domain.Card, error)
}

// CardWriter is used by provisioning and fixtures only. The engines never write cards.
type CardWriter interface {
	SaveCard(ctx context.Context, card domain.Card) error
}

type CardRepositoryFacade interface {
	CardReader
	CardWriter
}

package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/models"
	"github.com/SscSPs/credit_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cardColumns = `card_id, account_id, last_four, number_hash, expiry_month, expiry_year,
	card_type, status, spending_limit, created_at, last_updated_at`

type PgxCardRepository struct {
	BaseRepository
}

func newPgxCardRepository(pool *pgxpool.Pool) *PgxCardRepository {
	return &PgxCardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CardRepositoryFacade = (*PgxCardRepository)(nil)

func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	m := mapping.ToModelCard(card)
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CardID,
		m.AccountID,
		m.LastFour,
		m.NumberHash,
		m.ExpiryMonth,
		m.ExpiryYear,
		m.CardType,
		m.Status,
		m.SpendingLimit,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert card "+m.CardID, err)
	}
	return nil
}

func (r *PgxCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1;`
	var m models.Card
	err := r.Pool.QueryRow(ctx, query, cardID).Scan(
		&m.CardID,
		&m.AccountID,
		&m.LastFour,
		&m.NumberHash,
		&m.ExpiryMonth,
		&m.ExpiryYear,
		&m.CardType,
		&m.Status,
		&m.SpendingLimit,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "failed to find card "+cardID)
	}
	card := mapping.ToDomainCard(m)
	return &card, nil
}

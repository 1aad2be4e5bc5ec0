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

const accountColumns = `account_id, user_id, credit_limit, current_balance, apr,
	statement_closing_day, payment_due_days, status, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row rowScanner) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.CreditLimit,
		&m.CurrentBalance,
		&m.APR,
		&m.StatementClosingDay,
		&m.PaymentDueDays,
		&m.Status,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate when the id is taken.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.CreditLimit,
		m.CurrentBalance,
		m.APR,
		m.StatementClosingDay,
		m.PaymentDueDays,
		m.Status,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account without locking it.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find account "+accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListActiveAccountsByClosingDay retrieves ACTIVE accounts billed on closingDay.
func (r *PgxAccountRepository) ListActiveAccountsByClosingDay(ctx context.Context, closingDay int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE statement_closing_day = $1 AND status = $2
		ORDER BY account_id;
	`
	rows, err := r.Pool.Query(ctx, query, closingDay, string(domain.AccountActive))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query accounts for billing", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan account row", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

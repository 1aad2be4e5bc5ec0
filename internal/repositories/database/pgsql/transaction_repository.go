package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/models"
	"github.com/SscSPs/credit_ledger/internal/utils/mapping"
	"github.com/SscSPs/credit_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, account_id, card_id, merchant_category, merchant_address,
	amount, authorized_amount, currency, transaction_type, status, previous_balance, new_balance,
	decline_code, decline_reason, statement_id, created_at, posted_at`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionReader = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.AccountID,
		&t.CardID,
		&t.MerchantCategory,
		&t.MerchantAddress,
		&t.Amount,
		&t.AuthorizedAmount,
		&t.Currency,
		&t.TransactionType,
		&t.Status,
		&t.PreviousBalance,
		&t.NewBalance,
		&t.DeclineCode,
		&t.DeclineReason,
		&t.StatementID,
		&t.CreatedAt,
		&t.PostedAt,
	)
	return t, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transaction row", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(transactions), nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByAccountID pages newest first on (created_at, transaction_id).
// One extra row is fetched to decide whether a next page exists.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", apperrors.ErrValidation)
		}
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE account_id = $1 AND (created_at, transaction_id) < ($2, $3)
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, accountID, cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE account_id = $1
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, accountID, limit+1)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions for account "+accountID, err)
	}

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return transactions, next, nil
}

func (r *PgxTransactionRepository) FindTransactionsByStatementID(ctx context.Context, statementID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE statement_id = $1
		ORDER BY created_at, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions for statement "+statementID, err)
	}
	return collectTransactions(rows)
}

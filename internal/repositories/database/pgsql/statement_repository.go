package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/models"
	"github.com/SscSPs/credit_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const statementColumns = `statement_id, account_id, statement_date, period_start, period_end,
	billing_period_end, previous_balance, closing_balance, total_purchases, total_payments,
	total_fees, total_interest, minimum_payment_due, payment_due_date, status,
	transaction_count, created_at`

type PgxStatementRepository struct {
	BaseRepository
}

func newPgxStatementRepository(pool *pgxpool.Pool) *PgxStatementRepository {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementReader = (*PgxStatementRepository)(nil)

func scanStatement(row rowScanner) (models.Statement, error) {
	var s models.Statement
	err := row.Scan(
		&s.StatementID,
		&s.AccountID,
		&s.StatementDate,
		&s.PeriodStart,
		&s.PeriodEnd,
		&s.BillingPeriodEnd,
		&s.PreviousBalance,
		&s.ClosingBalance,
		&s.TotalPurchases,
		&s.TotalPayments,
		&s.TotalFees,
		&s.TotalInterest,
		&s.MinimumPaymentDue,
		&s.PaymentDueDate,
		&s.Status,
		&s.TransactionCount,
		&s.CreatedAt,
	)
	return s, err
}

func collectStatements(rows pgx.Rows) ([]domain.Statement, error) {
	defer rows.Close()
	statements := []models.Statement{}
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan statement row", err)
		}
		statements = append(statements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating statement rows", err)
	}
	return mapping.ToDomainStatementSlice(statements), nil
}

func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE statement_id = $1;`
	m, err := scanStatement(r.Pool.QueryRow(ctx, query, statementID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find statement "+statementID)
	}
	statement := mapping.ToDomainStatement(m)
	return &statement, nil
}

func (r *PgxStatementRepository) ListStatementsByAccountID(ctx context.Context, accountID string) ([]domain.Statement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE account_id = $1
		ORDER BY billing_period_end DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query statements for account "+accountID, err)
	}
	return collectStatements(rows)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrBillingRunInProgress is returned when another instance holds the billing-run lock.
var ErrBillingRunInProgress = fmt.Errorf("%w: billing run already in progress", apperrors.ErrConflict)

// StatementConfig tunes the billing run.
type StatementConfig struct {
	// Concurrency bounds how many accounts are billed in parallel.
	Concurrency int
	// LockTTL is how long the billing-run lock is held before it expires on its own.
	LockTTL time.Duration
}

func (c StatementConfig) withDefaults() StatementConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 30 * time.Minute
	}
	return c
}

type statementService struct {
	BaseService
	store  portsrepo.LedgerStore
	locker portsrepo.JobLocker
	cfg    StatementConfig
}

// NewStatementService creates a new StatementSvc. locker may be nil for a single-instance deployment.
func NewStatementService(store portsrepo.LedgerStore, locker portsrepo.JobLocker, cfg StatementConfig, options ...ServiceOption) portssvc.StatementSvc {
	return &statementService{
		BaseService: newBaseService(options...),
		store:       store,
		locker:      locker,
		cfg:         cfg.withDefaults(),
	}
}

var _ portssvc.StatementSvc = (*statementService)(nil)

func billingRunKey(day time.Time) string {
	return "billing-run:" + day.Format(time.DateOnly)
}

// GenerateForPeriod bills every ACTIVE account closing today. Per-account
// failures are logged and counted as skipped; they never abort the run.
func (s *statementService) GenerateForPeriod(ctx context.Context) (*domain.StatementBatchResult, error) {
	defer s.Metrics.ObserveDuration("statement_run", time.Now())
	now := s.Now()
	logger := s.GetLogger(ctx).With(slog.String("run_date", now.Format(time.DateOnly)))

	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx, billingRunKey(now), s.cfg.LockTTL)
		if err != nil {
			logger.Error("Failed to acquire billing-run lock", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to acquire billing-run lock: %w", err)
		}
		if !acquired {
			logger.Info("Billing run skipped, lock held elsewhere")
			return nil, ErrBillingRunInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release billing-run lock", slog.String("error", err.Error()))
			}
		}()
	}

	accounts, err := s.store.ListActiveAccountsByClosingDay(ctx, now.Day())
	if err != nil {
		logger.Error("Failed to list accounts for billing", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts closing on day %d: %w", now.Day(), err)
	}

	var (
		mu     sync.Mutex
		result domain.StatementBatchResult
		g      errgroup.Group
	)
	g.SetLimit(s.cfg.Concurrency)

	for _, account := range accounts {
		accountID := account.AccountID
		g.Go(func() error {
			outcome, err := s.generate(ctx, accountID, now, true)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				logger.Error("Statement generation failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
				result.SkippedCount++
				result.FailedCount++
				s.Metrics.IncStatement("failed")
			case outcome.Generated:
				result.GeneratedCount++
			default:
				result.SkippedCount++
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("Billing run finished",
		slog.Int("accounts", len(accounts)),
		slog.Int("generated", result.GeneratedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", result.FailedCount))
	return &result, nil
}

// GenerateForAccount bills one account for the billing period containing today.
func (s *statementService) GenerateForAccount(ctx context.Context, accountID string) (*domain.StatementOutcome, error) {
	defer s.Metrics.ObserveDuration("statement_account", time.Now())
	if accountID == "" {
		return nil, apperrors.NewValidationError("account id is required")
	}
	outcome, err := s.generate(ctx, accountID, s.Now(), false)
	if err != nil {
		s.LogError(ctx, err, "Statement generation failed", slog.String("account_id", accountID))
		return nil, err
	}
	return outcome, nil
}

func skipped(accountID string, d domain.Decline) *domain.StatementOutcome {
	return &domain.StatementOutcome{AccountID: accountID, Generated: false, Skip: &d}
}

// generate runs under the account row lock so aggregation, insert and link
// see a consistent ledger. Rows are selected by link state: POSTED, not yet on
// a statement, posted at or before now. A row can therefore never land on two
// statements, and a row still pending at close is billed next cycle.
// With activeOnly set, an account no longer ACTIVE under the lock is skipped.
func (s *statementService) generate(ctx context.Context, accountID string, now time.Time, activeOnly bool) (*domain.StatementOutcome, error) {
	logger := s.GetLogger(ctx).With(slog.String("account_id", accountID))

	var outcome *domain.StatementOutcome
	err := s.store.InAccountTx(ctx, accountID, func(ctx context.Context, tx portsrepo.LedgerTx, account domain.Account) error {
		if activeOnly && !account.IsActive() {
			outcome = skipped(accountID, domain.AccountNotActive(account.Status))
			return nil
		}
		period := domain.BillingPeriodFor(account.StatementClosingDay, now)

		_, err := tx.FindStatementByBillingPeriod(ctx, accountID, period.End)
		if err == nil {
			outcome = skipped(accountID, domain.StatementExists())
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check existing statement: %w", err)
		}

		windowStart := time.Unix(0, 0).UTC()
		previousBalance := decimal.Zero
		latest, err := tx.FindLatestStatement(ctx, accountID)
		switch {
		case err == nil:
			windowStart = latest.PeriodEnd
			previousBalance = latest.ClosingBalance
		case !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("failed to load previous statement: %w", err)
		}

		txns, err := tx.ListUnbilledPostedTransactions(ctx, accountID, now)
		if err != nil {
			return fmt.Errorf("failed to list unbilled transactions: %w", err)
		}
		totals := domain.SummarizeTransactions(txns)

		statement := domain.Statement{
			StatementID:       uuid.NewString(),
			AccountID:         accountID,
			StatementDate:     now,
			PeriodStart:       windowStart,
			PeriodEnd:         now,
			BillingPeriodEnd:  period.End,
			PreviousBalance:   previousBalance,
			ClosingBalance:    account.CurrentBalance,
			TotalPurchases:    totals.Purchases,
			TotalPayments:     totals.Payments,
			TotalFees:         totals.Fees,
			TotalInterest:     totals.Interest,
			MinimumPaymentDue: domain.MinimumPaymentDue(account.CurrentBalance),
			PaymentDueDate:    period.PaymentDueDate(account.PaymentDueDays),
			Status:            domain.StatementGenerated,
			TransactionCount:  totals.Count,
			CreatedAt:         now,
		}
		if err := tx.CreateStatement(ctx, statement); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				outcome = skipped(accountID, domain.StatementExists())
				return nil
			}
			return fmt.Errorf("failed to create statement: %w", err)
		}

		if len(txns) > 0 {
			ids := make([]string, len(txns))
			for i, t := range txns {
				ids[i] = t.TransactionID
			}
			if err := tx.LinkTransactionsToStatement(ctx, statement.StatementID, ids); err != nil {
				return fmt.Errorf("failed to link transactions to statement: %w", err)
			}
		}

		outcome = &domain.StatementOutcome{AccountID: accountID, Generated: true, Statement: &statement}
		return nil
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		outcome, err = skipped(accountID, domain.AccountNotFound()), nil
	}
	if err != nil {
		return nil, err
	}

	if outcome.Generated {
		logger.Info("Statement generated",
			slog.String("statement_id", outcome.Statement.StatementID),
			slog.Int("transactions", outcome.Statement.TransactionCount),
			slog.String("closing_balance", domain.FormatMoney(outcome.Statement.ClosingBalance)))
		s.Metrics.IncStatement("generated")
	} else {
		logger.Info("Statement skipped", slog.String("code", string(outcome.Skip.Code)))
		s.Metrics.IncStatement("skipped")
	}
	return outcome, nil
}

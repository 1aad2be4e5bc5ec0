package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type settlementService struct {
	BaseService
	store    portsrepo.LedgerStore
	validate *validator.Validate
}

// NewSettlementService creates a new SettlementSvc.
func NewSettlementService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.SettlementSvc {
	return &settlementService{
		BaseService: newBaseService(options...),
		store:       store,
		validate:    validator.New(),
	}
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func rejected(transactionID string, d domain.Decline) *domain.SettlementOutcome {
	return &domain.SettlementOutcome{TransactionID: transactionID, Settled: false, Rejection: &d}
}

// Settle posts a pending transaction. Re-settling is rejected, not ignored.
func (s *settlementService) Settle(ctx context.Context, transactionID string, finalAmount *decimal.Decimal) (*domain.SettlementOutcome, error) {
	defer s.Metrics.ObserveDuration("settle", time.Now())
	logger := s.GetLogger(ctx).With(slog.String("transaction_id", transactionID))

	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction_id is required", apperrors.ErrValidation)
	}
	if finalAmount != nil && !finalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: final_amount must be positive", apperrors.ErrValidation)
	}

	txn, err := s.store.FindTransactionByID(ctx, transactionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.record(logger, rejected(transactionID, domain.TransactionNotFound())), nil
	}
	if err != nil {
		logger.Error("Failed to look up transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up transaction %s: %w", transactionID, err)
	}

	var outcome *domain.SettlementOutcome
	err = s.store.InAccountTx(ctx, txn.AccountID, func(ctx context.Context, tx portsrepo.LedgerTx, account domain.Account) error {
		current, err := tx.FindTransactionForUpdate(ctx, transactionID)
		if errors.Is(err, apperrors.ErrNotFound) {
			outcome = rejected(transactionID, domain.TransactionNotFound())
			return nil
		}
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(domain.TxnPosted) {
			outcome = rejected(transactionID, domain.TransactionNotPending(current.Status))
			return nil
		}

		final := current.Amount
		if finalAmount != nil && !finalAmount.Equal(current.Amount) {
			diff := finalAmount.Sub(current.Amount)
			if diff.IsPositive() && diff.GreaterThan(account.AvailableCredit()) {
				outcome = rejected(transactionID, domain.InsufficientCredit(account.AvailableCredit(), diff))
				return nil
			}
			newBalance, err := tx.ApplyBalanceDelta(ctx, account.AccountID, diff)
			if err != nil {
				return fmt.Errorf("failed to apply settlement adjustment: %w", err)
			}
			logger.Info("Settlement adjusted authorization",
				slog.String("authorized", domain.FormatMoney(current.Amount)),
				slog.String("final", domain.FormatMoney(*finalAmount)),
				slog.String("new_balance", domain.FormatMoney(newBalance)))
			final = *finalAmount
		}

		postedAt := s.Now()
		current.Amount = final
		current.NewBalance = current.PreviousBalance.Add(final)
		current.Status = domain.TxnPosted
		current.PostedAt = &postedAt
		if err := tx.UpdateSettledTransaction(ctx, *current); err != nil {
			return fmt.Errorf("failed to post transaction: %w", err)
		}
		outcome = &domain.SettlementOutcome{TransactionID: transactionID, Settled: true, Transaction: current}
		return nil
	})
	if err != nil {
		logger.Error("Settlement failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("settlement %s: %w", transactionID, err)
	}
	return s.record(logger, outcome), nil
}

func (s *settlementService) record(logger *slog.Logger, outcome *domain.SettlementOutcome) *domain.SettlementOutcome {
	code := ""
	if outcome.Rejection != nil {
		code = string(outcome.Rejection.Code)
		logger.Info("Settlement rejected", slog.String("code", code), slog.String("detail", outcome.Rejection.Detail))
	} else {
		logger.Info("Transaction settled")
	}
	s.Metrics.IncSettlement(outcome.Settled, code)
	return outcome
}

// SettleBatch settles every item on its own. Invalid items and per-item
// infrastructure failures are reported in the results and never abort the batch.
func (s *settlementService) SettleBatch(ctx context.Context, reqs []dto.SettleRequest) (*domain.BatchSettlementResult, error) {
	defer s.Metrics.ObserveDuration("settle_batch", time.Now())

	result := &domain.BatchSettlementResult{Results: make([]domain.SettlementOutcome, 0, len(reqs))}
	for i, req := range reqs {
		outcome := s.settleItem(ctx, i, req)
		if outcome.Settled {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, *outcome)
	}

	s.LogInfo(ctx, "Batch settlement finished",
		slog.Int("items", len(reqs)),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *settlementService) settleItem(ctx context.Context, index int, req dto.SettleRequest) *domain.SettlementOutcome {
	if err := s.validate.Struct(req); err != nil {
		return rejected(req.TransactionID, domain.InvalidRequest(fmt.Sprintf("item %d: %s", index, validationMessage(err))))
	}

	var final *decimal.Decimal
	if req.FinalAmount != nil {
		amount := domain.FromMinorUnits(*req.FinalAmount)
		final = &amount
	}

	outcome, err := s.Settle(ctx, req.TransactionID, final)
	if err != nil {
		s.LogError(ctx, err, "Batch settlement item failed",
			slog.Int("index", index),
			slog.String("transaction_id", req.TransactionID))
		return rejected(req.TransactionID, domain.ProcessingError())
	}
	return outcome
}

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return msg
}

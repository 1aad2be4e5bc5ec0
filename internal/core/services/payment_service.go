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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type paymentService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewPaymentService creates a new PaymentSvc.
func NewPaymentService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.PaymentSvc {
	return &paymentService{
		BaseService: newBaseService(options...),
		store:       store,
	}
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

// ApplyPayment reduces the balance by amount, flooring at zero. Payments are
// accepted on suspended and closed accounts.
func (s *paymentService) ApplyPayment(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.PaymentResult, error) {
	defer s.Metrics.ObserveDuration("payment", time.Now())
	logger := s.GetLogger(ctx).With(slog.String("account_id", accountID))

	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("payment amount must be positive")
	}
	if !amount.Equal(domain.RoundMoney(amount)) {
		return nil, apperrors.NewValidationError("payment amount must have at most two decimal places")
	}

	var result *domain.PaymentResult
	err := s.store.InAccountTx(ctx, accountID, func(ctx context.Context, tx portsrepo.LedgerTx, account domain.Account) error {
		previous := account.CurrentBalance
		newBalance := decimal.Max(decimal.Zero, previous.Sub(amount))
		now := s.Now()

		res, err := tx.FindOrCreateTransaction(ctx, domain.Transaction{
			TransactionID:    uuid.NewString(),
			AccountID:        account.AccountID,
			Amount:           amount.Neg(),
			AuthorizedAmount: amount.Neg(),
			Currency:         DefaultCurrency,
			Type:             domain.TxnPayment,
			Status:           domain.TxnPosted,
			PreviousBalance:  previous,
			NewBalance:       newBalance,
			CreatedAt:        now,
			PostedAt:         &now,
		})
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		if !res.Created() {
			return fmt.Errorf("%w: payment id collision", apperrors.ErrConflict)
		}
		if _, err := tx.ApplyBalanceDelta(ctx, account.AccountID, newBalance.Sub(previous)); err != nil {
			return fmt.Errorf("failed to apply payment to balance: %w", err)
		}

		result = &domain.PaymentResult{
			Transaction:     res.Transaction,
			PreviousBalance: previous,
			NewBalance:      newBalance,
			AmountPaid:      amount,
		}
		return nil
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	if err != nil {
		logger.Error("Payment failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Payment applied",
		slog.String("amount", domain.FormatMoney(amount)),
		slog.String("previous_balance", domain.FormatMoney(result.PreviousBalance)),
		slog.String("new_balance", domain.FormatMoney(result.NewBalance)))
	s.Metrics.IncPayment(amount.InexactFloat64())
	return result, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is recorded when the card network omits one.
const DefaultCurrency = "USD"

// authorizationService decides card authorizations against the ledger.
type authorizationService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewAuthorizationService creates a new AuthorizationSvc.
func NewAuthorizationService(store portsrepo.LedgerStore, options ...ServiceOption) portssvc.AuthorizationSvc {
	return &authorizationService{
		BaseService: newBaseService(options...),
		store:       store,
	}
}

var _ portssvc.AuthorizationSvc = (*authorizationService)(nil)

func validateAuthorizeRequest(req dto.AuthorizeRequest) error {
	var missing []string
	if strings.TrimSpace(req.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(req.CardID) == "" {
		missing = append(missing, "card_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, req.Amount)
	}
	return nil
}

// Authorize runs the gates in order: idempotency, card, account status,
// available credit, card spending limit. The first failing gate decides.
func (s *authorizationService) Authorize(ctx context.Context, req dto.AuthorizeRequest) (*domain.AuthorizationDecision, error) {
	defer s.Metrics.ObserveDuration("authorize", time.Now())
	logger := s.GetLogger(ctx).With(
		slog.String("authorization_id", req.ID),
		slog.String("card_id", req.CardID),
	)

	if err := validateAuthorizeRequest(req); err != nil {
		return nil, err
	}
	amount := domain.FromMinorUnits(req.Amount)

	// Fast path for redelivered webhooks. The insert below is the real guard.
	existing, err := s.store.FindTransactionByID(ctx, req.ID)
	if err == nil {
		s.warnOnMismatch(logger, req, amount, existing)
		return s.replay(logger, *existing), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up authorization", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up transaction %s: %w", req.ID, err)
	}

	card, err := s.store.FindCardByID(ctx, req.CardID)
	if errors.Is(err, apperrors.ErrNotFound) {
		decline := domain.CardNotFound()
		logger.Info("Authorization declined", slog.String("code", string(decline.Code)))
		s.Metrics.IncAuthorization(false, string(decline.Code))
		return &domain.AuthorizationDecision{Approved: false, Decline: &decline}, nil
	}
	if err != nil {
		logger.Error("Failed to look up card", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up card %s: %w", req.CardID, err)
	}

	var decision *domain.AuthorizationDecision
	err = s.store.InAccountTx(ctx, card.AccountID, func(ctx context.Context, tx portsrepo.LedgerTx, account domain.Account) error {
		decline := evaluateAuthorization(*card, account, amount)
		txn := s.newPurchase(req, *card, account, amount, decline)

		res, err := tx.FindOrCreateTransaction(ctx, txn)
		if err != nil {
			return fmt.Errorf("failed to record authorization: %w", err)
		}
		if !res.Created() {
			// A concurrent delivery of the same id committed first.
			decision = s.replay(logger, res.Transaction)
			return nil
		}

		if decline == nil {
			if _, err := tx.ApplyBalanceDelta(ctx, account.AccountID, amount); err != nil {
				return fmt.Errorf("failed to apply authorization to balance: %w", err)
			}
		}
		stored := res.Transaction
		decision = &domain.AuthorizationDecision{
			Approved:    decline == nil,
			Transaction: &stored,
			Decline:     decline,
		}
		return nil
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		// The same id was committed under another account's lock; return that record.
		existing, findErr := s.store.FindTransactionByID(ctx, req.ID)
		if findErr == nil {
			s.warnOnMismatch(logger, req, amount, existing)
			return s.replay(logger, *existing), nil
		}
		logger.Error("Failed to re-read duplicate authorization", slog.String("error", findErr.Error()))
	}
	if err != nil {
		logger.Error("Authorization failed", slog.String("account_id", card.AccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("authorization %s: %w", req.ID, err)
	}

	if !decision.Duplicate {
		code := ""
		if decision.Decline != nil {
			code = string(decision.Decline.Code)
			logger.Info("Authorization declined",
				slog.String("account_id", card.AccountID),
				slog.String("code", code),
				slog.String("detail", decision.Decline.Detail))
		} else {
			logger.Info("Authorization approved",
				slog.String("account_id", card.AccountID),
				slog.String("amount", domain.FormatMoney(amount)),
				slog.String("new_balance", domain.FormatMoney(decision.Transaction.NewBalance)))
		}
		s.Metrics.IncAuthorization(decision.Approved, code)
	}
	return decision, nil
}

// evaluateAuthorization applies the card, account, credit and card-limit gates in order.
func evaluateAuthorization(card domain.Card, account domain.Account, amount decimal.Decimal) *domain.Decline {
	var d domain.Decline
	switch {
	case !card.IsActive():
		d = domain.CardInactive(card.Status)
	case !account.IsActive():
		d = domain.AccountNotActive(account.Status)
	case account.AvailableCredit().LessThan(amount):
		d = domain.InsufficientCredit(account.AvailableCredit(), amount)
	case card.ExceedsSpendingLimit(amount):
		d = domain.CardLimitExceeded(*card.SpendingLimit, amount)
	default:
		return nil
	}
	return &d
}

func (s *authorizationService) newPurchase(req dto.AuthorizeRequest, card domain.Card, account domain.Account, amount decimal.Decimal, decline *domain.Decline) domain.Transaction {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	cardID := card.CardID
	txn := domain.Transaction{
		TransactionID:    req.ID,
		AccountID:        account.AccountID,
		CardID:           &cardID,
		MerchantCategory: req.MerchantData.Category,
		MerchantAddress:  req.MerchantData.Address,
		Amount:           amount,
		AuthorizedAmount: amount,
		Currency:         currency,
		Type:             domain.TxnPurchase,
		Status:           domain.TxnPending,
		PreviousBalance:  account.CurrentBalance,
		NewBalance:       account.CurrentBalance.Add(amount),
		CreatedAt:        s.Now(),
	}
	if decline != nil {
		code := decline.Code
		txn.Status = domain.TxnDeclined
		txn.NewBalance = account.CurrentBalance
		txn.DeclineCode = &code
		txn.DeclineReason = decline.Detail
	}
	return txn
}

// replay rebuilds the recorded decision for an id that was already processed.
func (s *authorizationService) replay(logger *slog.Logger, txn domain.Transaction) *domain.AuthorizationDecision {
	logger.Info("Duplicate authorization delivery", slog.String("status", string(txn.Status)))
	s.Metrics.IncDuplicate("authorize")
	return &domain.AuthorizationDecision{
		Approved:    txn.Status.IsApproved(),
		Transaction: &txn,
		Decline:     txn.Decline(),
		Duplicate:   true,
	}
}

func (s *authorizationService) warnOnMismatch(logger *slog.Logger, req dto.AuthorizeRequest, amount decimal.Decimal, txn *domain.Transaction) {
	if txn.CardID != nil && *txn.CardID != req.CardID || !txn.AuthorizedAmount.Equal(amount) {
		logger.Warn("Redelivered authorization differs from recorded one",
			slog.String("recorded_amount", domain.FormatMoney(txn.AuthorizedAmount)),
			slog.String("requested_amount", domain.FormatMoney(amount)))
	}
}

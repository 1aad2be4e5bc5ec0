package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/SscSPs/credit_ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPaymentDueDays is used when onboarding does not specify a grace period.
const DefaultPaymentDueDays = 25

// accountService serves onboarding and the read-only account queries.
type accountService struct {
	BaseService
	store       portsrepo.LedgerStore
	cardHashKey []byte
}

// NewAccountService builds the onboarding and query service. cardHashKey keys
// the card number fingerprint and must be at most 64 bytes.
func NewAccountService(store portsrepo.LedgerStore, cardHashKey []byte, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		store:       store,
		cardHashKey: cardHashKey,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error) {
	now := s.Now()
	dueDays := req.PaymentDueDays
	if dueDays == 0 {
		dueDays = DefaultPaymentDueDays
	}
	account := domain.Account{
		AccountID:           uuid.NewString(),
		UserID:              req.UserID,
		CreditLimit:         domain.RoundMoney(req.CreditLimit),
		CurrentBalance:      domain.FromMinorUnits(0),
		APR:                 req.APR,
		StatementClosingDay: req.StatementClosingDay,
		PaymentDueDays:      dueDays,
		Status:              domain.AccountActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if req.UserID == "" {
		return nil, apperrors.NewValidationError("userID is required")
	}
	if req.APR.IsNegative() {
		return nil, apperrors.NewValidationError("apr cannot be negative")
	}
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("user_id", req.UserID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	s.LogInfo(ctx, "Account opened",
		slog.String("account_id", account.AccountID),
		slog.String("credit_limit", domain.FormatMoney(account.CreditLimit)))
	return &account, nil
}

// IssueCard attaches a new ACTIVE card to an existing, non-closed account.
func (s *accountService) IssueCard(ctx context.Context, accountID string, req dto.IssueCardRequest) (*domain.Card, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == domain.AccountClosed {
		return nil, fmt.Errorf("%w: account %s is closed", apperrors.ErrConflict, accountID)
	}

	if err := utils.ValidateCardNumber(req.CardNumber); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if req.ExpiryMonth < 1 || req.ExpiryMonth > 12 {
		return nil, apperrors.NewValidationError("expiryMonth must be between 1 and 12")
	}
	now := s.Now()
	if req.ExpiryYear < now.Year() || (req.ExpiryYear == now.Year() && req.ExpiryMonth < int(now.Month())) {
		return nil, apperrors.NewValidationError("card is already expired")
	}
	cardType := req.CardType
	if cardType == "" {
		cardType = domain.CardVirtual
	}
	if cardType != domain.CardPhysical && cardType != domain.CardVirtual {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown card type %q", cardType))
	}
	var spendingLimit *decimal.Decimal
	if req.SpendingLimit != nil {
		if !req.SpendingLimit.IsPositive() {
			return nil, apperrors.NewValidationError("spendingLimit must be positive")
		}
		limit := domain.RoundMoney(*req.SpendingLimit)
		spendingLimit = &limit
	}

	numberHash, err := utils.HashCardNumber(req.CardNumber, s.cardHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint card: %w", err)
	}
	cardID := req.CardID
	if cardID == "" {
		cardID = uuid.NewString()
	}
	card := domain.Card{
		CardID:        cardID,
		AccountID:     accountID,
		LastFour:      utils.LastFour(req.CardNumber),
		NumberHash:    numberHash,
		ExpiryMonth:   req.ExpiryMonth,
		ExpiryYear:    req.ExpiryYear,
		CardType:      cardType,
		Status:        domain.CardActive,
		SpendingLimit: spendingLimit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.store.SaveCard(ctx, card); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("card %s already exists: %w", cardID, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save card", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	s.LogInfo(ctx, "Card issued",
		slog.String("account_id", accountID),
		slog.String("card_id", card.CardID),
		slog.String("last_four", card.LastFour))
	return &card, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.store.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, next, err := s.store.ListTransactionsByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    next,
	}, nil
}

func (s *accountService) ListStatements(ctx context.Context, accountID string) ([]domain.Statement, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	statements, err := s.store.ListStatementsByAccountID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statements", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return statements, nil
}

func (s *accountService) GetStatement(ctx context.Context, statementID string) (*domain.Statement, []domain.Transaction, error) {
	statement, err := s.store.FindStatementByID(ctx, statementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("statement %s not found", statementID))
		}
		return nil, nil, fmt.Errorf("failed to get statement: %w", err)
	}
	txns, err := s.store.FindTransactionsByStatementID(ctx, statementID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get statement transactions: %w", err)
	}
	return statement, txns, nil
}

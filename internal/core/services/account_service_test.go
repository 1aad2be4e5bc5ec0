package services

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/SscSPs/credit_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAccount(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.NewStore(), testCardHashKey)

	acc, err := svc.OpenAccount(ctx, dto.OpenAccountRequest{
		UserID:              "user-1",
		CreditLimit:         decimal.RequireFromString("2500.004"),
		APR:                 decimal.RequireFromString("21.5"),
		StatementClosingDay: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, acc.AccountID)
	assert.Equal(t, "2500.00", domain.FormatMoney(acc.CreditLimit))
	assert.True(t, acc.CurrentBalance.IsZero())
	assert.Equal(t, DefaultPaymentDueDays, acc.PaymentDueDays)
	assert.Equal(t, domain.AccountActive, acc.Status)

	got, err := svc.GetAccount(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, acc.AccountID, got.AccountID)
}

func TestOpenAccount_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.OpenAccountRequest
	}{
		{"missing user", dto.OpenAccountRequest{CreditLimit: decimal.NewFromInt(100), StatementClosingDay: 1}},
		{"zero limit", dto.OpenAccountRequest{UserID: "u", StatementClosingDay: 1}},
		{"closing day 29", dto.OpenAccountRequest{UserID: "u", CreditLimit: decimal.NewFromInt(100), StatementClosingDay: 29}},
		{"negative apr", dto.OpenAccountRequest{UserID: "u", CreditLimit: decimal.NewFromInt(100), APR: decimal.NewFromInt(-1), StatementClosingDay: 1}},
	}
	svc := NewAccountService(memory.NewStore(), testCardHashKey)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.OpenAccount(context.Background(), tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAccountReads(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedAccount(t, "acc-1", "1000", 15)
	f.seedCard(t, "card-1", "acc-1", domain.CardActive, nil)
	for _, id := range []string{"t-1", "t-2", "t-3"} {
		require.True(t, f.authorize(t, id, "card-1", 1000).Approved)
	}
	svc := NewAccountService(f.store, testCardHashKey)

	page, err := svc.ListTransactions(f.ctx, "acc-1", dto.ListTransactionsParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, "t-3", page.Transactions[0].TransactionID)
	require.NotNil(t, page.NextToken)

	rest, err := svc.ListTransactions(f.ctx, "acc-1", dto.ListTransactionsParams{Limit: 2, NextToken: page.NextToken})
	require.NoError(t, err)
	require.Len(t, rest.Transactions, 1)
	assert.Equal(t, "t-1", rest.Transactions[0].TransactionID)
	assert.Nil(t, rest.NextToken)

	_, err = svc.ListTransactions(f.ctx, "acc-1", dto.ListTransactionsParams{NextToken: strPtr("%%%")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.GetAccount(f.ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = svc.GetStatement(f.ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetStatement_ReturnsLinkedTransactions(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedAccount(t, "acc-1", "1000", 15)
	f.seedCard(t, "card-1", "acc-1", domain.CardActive, nil)
	require.True(t, f.authorize(t, "t-1", "card-1", 1000).Approved)
	require.True(t, f.settle(t, "t-1", nil).Settled)

	f.clock.Set(closingDay)
	o, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)

	svc := NewAccountService(f.store, testCardHashKey)
	st, txns, err := svc.GetStatement(f.ctx, o.Statement.StatementID)
	require.NoError(t, err)
	assert.Equal(t, o.Statement.StatementID, st.StatementID)
	require.Len(t, txns, 1)
	assert.Equal(t, "t-1", txns[0].TransactionID)

	list, err := svc.ListStatements(f.ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

var testCardHashKey = []byte("test-card-hash-key")

func TestIssueCard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewAccountService(store, testCardHashKey, WithClock(clock.Now))

	acc, err := svc.OpenAccount(ctx, dto.OpenAccountRequest{
		UserID:              "user-1",
		CreditLimit:         decimal.NewFromInt(1000),
		StatementClosingDay: 15,
	})
	require.NoError(t, err)

	limit := decimal.RequireFromString("250.005")
	card, err := svc.IssueCard(ctx, acc.AccountID, dto.IssueCardRequest{
		CardNumber:    "4111111111111111",
		ExpiryMonth:   3,
		ExpiryYear:    2026,
		SpendingLimit: &limit,
	})
	require.NoError(t, err)
	assert.Equal(t, "1111", card.LastFour)
	assert.Equal(t, domain.CardVirtual, card.CardType)
	assert.Equal(t, domain.CardActive, card.Status)
	assert.Len(t, card.NumberHash, 64)
	require.NotNil(t, card.SpendingLimit)
	assert.Equal(t, "250.01", domain.FormatMoney(*card.SpendingLimit))

	stored, err := store.FindCardByID(ctx, card.CardID)
	require.NoError(t, err)
	assert.Equal(t, acc.AccountID, stored.AccountID)
	assert.Equal(t, card.NumberHash, stored.NumberHash)

	_, err = svc.IssueCard(ctx, acc.AccountID, dto.IssueCardRequest{
		CardID:      card.CardID,
		CardNumber:  "5555555555554444",
		ExpiryMonth: 1,
		ExpiryYear:  2030,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	auth := NewAuthorizationService(store, WithClock(clock.Now))
	decision, err := auth.Authorize(ctx, dto.AuthorizeRequest{ID: "t-1", CardID: card.CardID, Amount: 2500, Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, decision.Approved)
}

func TestIssueCard_Rejections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewAccountService(store, testCardHashKey, WithClock(clock.Now))

	acc, err := svc.OpenAccount(ctx, dto.OpenAccountRequest{
		UserID:              "user-1",
		CreditLimit:         decimal.NewFromInt(1000),
		StatementClosingDay: 15,
	})
	require.NoError(t, err)

	zero := decimal.Zero
	tests := []struct {
		name string
		req  dto.IssueCardRequest
	}{
		{"bad checksum", dto.IssueCardRequest{CardNumber: "4111111111111112", ExpiryMonth: 1, ExpiryYear: 2030}},
		{"expired", dto.IssueCardRequest{CardNumber: "4111111111111111", ExpiryMonth: 2, ExpiryYear: 2026}},
		{"bad month", dto.IssueCardRequest{CardNumber: "4111111111111111", ExpiryMonth: 13, ExpiryYear: 2030}},
		{"unknown type", dto.IssueCardRequest{CardNumber: "4111111111111111", ExpiryMonth: 1, ExpiryYear: 2030, CardType: "METAL"}},
		{"zero spending limit", dto.IssueCardRequest{CardNumber: "4111111111111111", ExpiryMonth: 1, ExpiryYear: 2030, SpendingLimit: &zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.IssueCard(ctx, acc.AccountID, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	valid := dto.IssueCardRequest{CardNumber: "4111111111111111", ExpiryMonth: 1, ExpiryYear: 2030}
	_, err = svc.IssueCard(ctx, "missing", valid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	closed := domain.Account{
		AccountID:           "acc-closed",
		UserID:              "user-2",
		CreditLimit:         decimal.NewFromInt(100),
		StatementClosingDay: 1,
		Status:              domain.AccountClosed,
	}
	require.NoError(t, store.SaveAccount(ctx, closed))
	_, err = svc.IssueCard(ctx, "acc-closed", valid)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

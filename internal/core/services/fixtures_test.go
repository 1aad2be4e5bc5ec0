package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/SscSPs/credit_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Every reading moves forward so created_at ordering is strict.
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ledgerFixture wires every engine to one in-memory store.
type ledgerFixture struct {
	ctx        context.Context
	store      *memory.Store
	clock      *fakeClock
	auth       *authorizationService
	settlement *settlementService
	payment    *paymentService
	statement  *statementService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	opts := []ServiceOption{WithClock(clock.Now)}
	return &ledgerFixture{
		ctx:        context.Background(),
		store:      store,
		clock:      clock,
		auth:       NewAuthorizationService(store, opts...).(*authorizationService),
		settlement: NewSettlementService(store, opts...).(*settlementService),
		payment:    NewPaymentService(store, opts...).(*paymentService),
		statement:  NewStatementService(store, nil, StatementConfig{Concurrency: 2}, opts...).(*statementService),
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *ledgerFixture) seedAccount(t *testing.T, id string, limit string, closingDay int) {
	t.Helper()
	require.NoError(t, f.store.SaveAccount(f.ctx, domain.Account{
		AccountID:           id,
		UserID:              "user-" + id,
		CreditLimit:         money(limit),
		CurrentBalance:      decimal.Zero,
		APR:                 money("19.99"),
		StatementClosingDay: closingDay,
		PaymentDueDays:      25,
		Status:              domain.AccountActive,
	}))
}

func (f *ledgerFixture) seedCard(t *testing.T, id, accountID string, status domain.CardStatus, limit *decimal.Decimal) {
	t.Helper()
	require.NoError(t, f.store.SaveCard(f.ctx, domain.Card{
		CardID:        id,
		AccountID:     accountID,
		LastFour:      "4242",
		CardType:      domain.CardVirtual,
		Status:        status,
		SpendingLimit: limit,
	}))
}

func (f *ledgerFixture) setAccountStatus(t *testing.T, id string, status domain.AccountStatus) {
	t.Helper()
	require.NoError(t, f.store.SetAccountStatus(f.ctx, id, status))
}

func (f *ledgerFixture) balance(t *testing.T, id string) string {
	t.Helper()
	acc, err := f.store.FindAccountByID(f.ctx, id)
	require.NoError(t, err)
	return domain.FormatMoney(acc.CurrentBalance)
}

func (f *ledgerFixture) authorize(t *testing.T, id, cardID string, cents int64) *domain.AuthorizationDecision {
	t.Helper()
	d, err := f.auth.Authorize(f.ctx, dto.AuthorizeRequest{
		ID:       id,
		CardID:   cardID,
		Amount:   cents,
		Currency: "usd",
		MerchantData: dto.MerchantData{
			Category: "5812",
			Address:  "1 Main St",
		},
	})
	require.NoError(t, err)
	return d
}

func (f *ledgerFixture) settle(t *testing.T, id string, final *string) *domain.SettlementOutcome {
	t.Helper()
	var amount *decimal.Decimal
	if final != nil {
		v := money(*final)
		amount = &v
	}
	o, err := f.settlement.Settle(f.ctx, id, amount)
	require.NoError(t, err)
	return o
}

func strPtr(s string) *string {
	return &s
}

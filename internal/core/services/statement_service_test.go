package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var closingDay = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

func newStatementFixture(t *testing.T) *ledgerFixture {
	f := newLedgerFixture(t)
	f.seedAccount(t, "acc-1", "5000", 15)
	f.seedCard(t, "card-1", "acc-1", domain.CardActive, nil)
	return f
}

func TestGenerateForAccount_Totals(t *testing.T) {
	f := newStatementFixture(t)
	require.True(t, f.authorize(t, "p-50", "card-1", 5000).Approved)
	require.True(t, f.authorize(t, "p-75", "card-1", 7500).Approved)
	require.True(t, f.settle(t, "p-50", nil).Settled)
	require.True(t, f.settle(t, "p-75", nil).Settled)
	_, err := f.payment.ApplyPayment(f.ctx, "acc-1", money("25"))
	require.NoError(t, err)

	f.clock.Set(closingDay)
	o, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, o.Generated)

	st := o.Statement
	assert.Equal(t, "125.00", domain.FormatMoney(st.TotalPurchases))
	assert.Equal(t, "25.00", domain.FormatMoney(st.TotalPayments))
	assert.Equal(t, "0.00", domain.FormatMoney(st.TotalFees))
	assert.Equal(t, "100.00", domain.FormatMoney(st.ClosingBalance))
	assert.Equal(t, f.balance(t, "acc-1"), domain.FormatMoney(st.ClosingBalance))
	assert.Equal(t, "0.00", domain.FormatMoney(st.PreviousBalance))
	assert.Equal(t, "25.00", domain.FormatMoney(st.MinimumPaymentDue))
	assert.Equal(t, 3, st.TransactionCount)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), st.BillingPeriodEnd)
	assert.Equal(t, time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), st.PaymentDueDate)
	assert.Equal(t, domain.StatementGenerated, st.Status)

	linked, err := f.store.FindTransactionsByStatementID(f.ctx, st.StatementID)
	require.NoError(t, err)
	assert.Len(t, linked, 3)
}

func TestGenerateForAccount_SecondCallInPeriodIsSkipped(t *testing.T) {
	f := newStatementFixture(t)
	f.clock.Set(closingDay)

	first, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, first.Generated)

	f.clock.Set(closingDay.Add(3 * time.Hour))
	second, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	assert.False(t, second.Generated)
	assert.Equal(t, "Statement already exists", second.Skip.Detail)

	list, err := f.store.ListStatementsByAccountID(f.ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateForAccount_NoDoubleCountAcrossStatements(t *testing.T) {
	f := newStatementFixture(t)
	require.True(t, f.authorize(t, "p-1", "card-1", 10000).Approved)
	require.True(t, f.settle(t, "p-1", nil).Settled)

	f.clock.Set(closingDay)
	first, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, first.Generated)

	// Activity right after close belongs to the next statement only.
	require.True(t, f.authorize(t, "p-2", "card-1", 4000).Approved)
	require.True(t, f.settle(t, "p-2", nil).Settled)

	f.clock.Set(closingDay.AddDate(0, 1, 0))
	second, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, second.Generated)

	assert.Equal(t, "100.00", domain.FormatMoney(first.Statement.TotalPurchases))
	assert.Equal(t, "40.00", domain.FormatMoney(second.Statement.TotalPurchases))
	assert.Equal(t, 1, second.Statement.TransactionCount)
	assert.Equal(t, "100.00", domain.FormatMoney(second.Statement.PreviousBalance))
	assert.Equal(t, "140.00", domain.FormatMoney(second.Statement.ClosingBalance))
	assert.True(t, second.Statement.PeriodStart.Equal(first.Statement.PeriodEnd))
}

func TestGenerateForAccount_PendingAtCloseIsBilledNextCycle(t *testing.T) {
	f := newStatementFixture(t)
	require.True(t, f.authorize(t, "hotel", "card-1", 20000).Approved)

	f.clock.Set(closingDay)
	first, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Statement.TransactionCount)
	assert.Equal(t, "200.00", domain.FormatMoney(first.Statement.ClosingBalance))

	require.True(t, f.settle(t, "hotel", strPtr("180")).Settled)

	f.clock.Set(closingDay.AddDate(0, 1, 0))
	second, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Statement.TransactionCount)
	assert.Equal(t, "180.00", domain.FormatMoney(second.Statement.TotalPurchases))
}

func TestGenerateForAccount_MinimumPaymentTwoPercent(t *testing.T) {
	f := newStatementFixture(t)
	require.True(t, f.authorize(t, "p-1", "card-1", 200000).Approved)

	f.clock.Set(closingDay)
	o, err := f.statement.GenerateForAccount(f.ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "40.00", domain.FormatMoney(o.Statement.MinimumPaymentDue))
}

func TestGenerateForAccount_UnknownAccountIsSkipped(t *testing.T) {
	f := newStatementFixture(t)
	o, err := f.statement.GenerateForAccount(f.ctx, "missing")
	require.NoError(t, err)
	assert.False(t, o.Generated)
	assert.Equal(t, domain.SkipAccountNotFound, o.Skip.Code)
}

func TestGenerateForPeriod_BillsAccountsClosingToday(t *testing.T) {
	f := newStatementFixture(t)
	f.seedAccount(t, "acc-2", "1000", 15)
	f.seedAccount(t, "acc-other-day", "1000", 3)
	f.seedAccount(t, "acc-closed", "1000", 15)
	f.setAccountStatus(t, "acc-closed", domain.AccountClosed)

	f.clock.Set(closingDay)
	res, err := f.statement.GenerateForPeriod(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.GeneratedCount)
	assert.Equal(t, 0, res.SkippedCount)

	res, err = f.statement.GenerateForPeriod(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.GeneratedCount)
	assert.Equal(t, 2, res.SkippedCount)

	other, err := f.store.ListStatementsByAccountID(f.ctx, "acc-other-day")
	require.NoError(t, err)
	assert.Empty(t, other)
}

type stubLocker struct {
	acquired bool
	err      error
	released int
}

func (l *stubLocker) TryLock(_ context.Context, _ string, _ time.Duration) (portsrepo.ReleaseFunc, bool, error) {
	if l.err != nil || !l.acquired {
		return nil, false, l.err
	}
	return func(context.Context) error {
		l.released++
		return nil
	}, true, nil
}

func TestGenerateForPeriod_Lock(t *testing.T) {
	f := newStatementFixture(t)
	f.clock.Set(closingDay)

	held := &stubLocker{acquired: false}
	svc := NewStatementService(f.store, held, StatementConfig{}, WithClock(f.clock.Now))
	_, err := svc.GenerateForPeriod(f.ctx)
	assert.ErrorIs(t, err, ErrBillingRunInProgress)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	broken := &stubLocker{err: errors.New("redis down")}
	svc = NewStatementService(f.store, broken, StatementConfig{}, WithClock(f.clock.Now))
	_, err = svc.GenerateForPeriod(f.ctx)
	assert.Error(t, err)

	free := &stubLocker{acquired: true}
	svc = NewStatementService(f.store, free, StatementConfig{}, WithClock(f.clock.Now))
	res, err := svc.GenerateForPeriod(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.GeneratedCount)
	assert.Equal(t, 1, free.released)
}

package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLedger_MixedSequenceKeepsSnapshotsConsistent drives every engine against
// one account and then audits the full transaction history.
func TestLedger_MixedSequenceKeepsSnapshotsConsistent(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedAccount(t, "acc-1", "1000.00", 15)
	f.seedCard(t, "card-1", "acc-1", domain.CardActive, nil)

	limit := money("1000.00")
	assertWithinLimit := func(step string) {
		t.Helper()
		acc, err := f.store.FindAccountByID(f.ctx, "acc-1")
		require.NoError(t, err)
		assert.False(t, acc.CurrentBalance.IsNegative(), "%s: balance %s below zero", step, acc.CurrentBalance)
		assert.True(t, acc.CurrentBalance.LessThanOrEqual(limit), "%s: balance %s over limit", step, acc.CurrentBalance)
	}

	// Approvals
	require.True(t, f.authorize(t, "auth-1", "card-1", 10000).Approved)
	assertWithinLimit("auth-1")
	require.True(t, f.authorize(t, "auth-2", "card-1", 25000).Approved)
	assertWithinLimit("auth-2")
	require.True(t, f.authorize(t, "auth-3", "card-1", 8000).Approved)
	assertWithinLimit("auth-3")
	assert.Equal(t, "430.00", f.balance(t, "acc-1"))

	// Decline on insufficient credit
	declined := f.authorize(t, "auth-4", "card-1", 70000)
	require.False(t, declined.Approved)
	assert.Equal(t, domain.DeclineInsufficientCredit, declined.Decline.Code)
	assertWithinLimit("auth-4")
	assert.Equal(t, "430.00", f.balance(t, "acc-1"))

	// Settlements: unchanged, lower and higher final amounts
	require.True(t, f.settle(t, "auth-1", nil).Settled)
	assertWithinLimit("settle auth-1")
	require.True(t, f.settle(t, "auth-2", strPtr("200.00")).Settled)
	assertWithinLimit("settle auth-2")
	require.True(t, f.settle(t, "auth-3", strPtr("95.00")).Settled)
	assertWithinLimit("settle auth-3")
	assert.Equal(t, "395.00", f.balance(t, "acc-1"))

	// Partial payment
	paid, err := f.payment.ApplyPayment(f.ctx, "acc-1", money("150.00"))
	require.NoError(t, err)
	assert.Equal(t, "245.00", domain.FormatMoney(paid.NewBalance))
	assertWithinLimit("payment")

	// Concurrent authorizations contend for the remaining 755.00
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.auth.Authorize(f.ctx, dto.AuthorizeRequest{ID: fmt.Sprintf("burst-%d", i), CardID: "card-1", Amount: 5000})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assertWithinLimit("burst")
	assert.Equal(t, "995.00", f.balance(t, "acc-1"))

	// Overpayment floors the balance at zero
	overpaid, err := f.payment.ApplyPayment(f.ctx, "acc-1", money("1200.00"))
	require.NoError(t, err)
	assert.True(t, overpaid.NewBalance.IsZero())
	assertWithinLimit("overpayment")
	overpaymentID := overpaid.Transaction.TransactionID

	// Audit every row, paging through the history
	var rows []domain.Transaction
	var next *string
	for {
		page, token, err := f.store.ListTransactionsByAccountID(f.ctx, "acc-1", 7, next)
		require.NoError(t, err)
		rows = append(rows, page...)
		if token == nil {
			break
		}
		next = token
	}
	require.Len(t, rows, 26)

	var declinedRows, approvedBursts int
	for _, row := range rows {
		switch {
		case row.Status == domain.TxnDeclined:
			declinedRows++
			assert.True(t, row.PreviousBalance.Equal(row.NewBalance), "declined %s moved the balance", row.TransactionID)
		case row.TransactionID == overpaymentID:
			assert.Equal(t, "995.00", domain.FormatMoney(row.PreviousBalance))
			assert.True(t, row.NewBalance.IsZero())
			assert.True(t, row.Amount.Equal(money("-1200.00")))
			assert.False(t, row.BalanceDelta().Equal(row.Amount))
		default:
			assert.True(t, row.BalanceDelta().Equal(row.Amount),
				"%s: delta %s != amount %s", row.TransactionID, row.BalanceDelta(), row.Amount)
			if row.Type == domain.TxnPurchase && row.Amount.Equal(money("50.00")) {
				approvedBursts++
			}
		}
	}
	assert.Equal(t, 15, approvedBursts)
	assert.Equal(t, 6, declinedRows)

	// Settled rows carry their final amounts
	byID := make(map[string]domain.Transaction, len(rows))
	for _, row := range rows {
		byID[row.TransactionID] = row
	}
	assert.Equal(t, "100.00", domain.FormatMoney(byID["auth-1"].Amount))
	assert.Equal(t, "200.00", domain.FormatMoney(byID["auth-2"].Amount))
	assert.Equal(t, "95.00", domain.FormatMoney(byID["auth-3"].Amount))
	for _, id := range []string{"auth-1", "auth-2", "auth-3"} {
		assert.Equal(t, domain.TxnPosted, byID[id].Status)
	}
}

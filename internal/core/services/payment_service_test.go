package services

import (
	"testing"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/SscSPs/credit_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPayment(t *testing.T) {
	f := newSettlementFixture(t)
	require.True(t, f.authorize(t, "auth-1", "card-1", 30000).Approved)

	res, err := f.payment.ApplyPayment(f.ctx, "acc-1", money("120.50"))
	require.NoError(t, err)

	assert.Equal(t, "300.00", domain.FormatMoney(res.PreviousBalance))
	assert.Equal(t, "179.50", domain.FormatMoney(res.NewBalance))
	assert.Equal(t, "120.50", domain.FormatMoney(res.AmountPaid))
	assert.Equal(t, "179.50", f.balance(t, "acc-1"))

	txn := res.Transaction
	assert.Equal(t, domain.TxnPayment, txn.Type)
	assert.Equal(t, domain.TxnPosted, txn.Status)
	assert.Equal(t, "-120.50", domain.FormatMoney(txn.Amount))
	assert.NotNil(t, txn.PostedAt)
	assert.True(t, txn.BalanceDelta().Equal(txn.Amount))

	stored, err := f.store.FindTransactionByID(f.ctx, txn.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, txn.TransactionID, stored.TransactionID)
}

func TestApplyPayment_OverpaymentFloorsAtZero(t *testing.T) {
	f := newSettlementFixture(t)
	require.True(t, f.authorize(t, "auth-1", "card-1", 5000).Approved)

	res, err := f.payment.ApplyPayment(f.ctx, "acc-1", money("80"))
	require.NoError(t, err)
	assert.True(t, res.NewBalance.IsZero())
	assert.Equal(t, "0.00", f.balance(t, "acc-1"))
	assert.Equal(t, "-80.00", domain.FormatMoney(res.Transaction.Amount))
	assert.Equal(t, "80.00", domain.FormatMoney(res.AmountPaid))
}

func TestApplyPayment_Errors(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.payment.ApplyPayment(f.ctx, "missing", money("10"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	for _, amount := range []string{"0", "-5", "10.005"} {
		_, err = f.payment.ApplyPayment(f.ctx, "acc-1", money(amount))
		assert.ErrorIs(t, err, apperrors.ErrValidation, amount)
	}
}

func TestApplyPayment_AllowedOnSuspendedAccount(t *testing.T) {
	f := newSettlementFixture(t)
	require.True(t, f.authorize(t, "auth-1", "card-1", 5000).Approved)
	f.setAccountStatus(t, "acc-1", domain.AccountSuspended)

	_, err := f.payment.ApplyPayment(f.ctx, "acc-1", money("20"))
	require.NoError(t, err)
	assert.Equal(t, "30.00", f.balance(t, "acc-1"))
}

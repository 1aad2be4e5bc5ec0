package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, decimal.RequireFromString("60.00").Equal(FromMinorUnits(6000)))
	assert.True(t, decimal.RequireFromString("0.01").Equal(FromMinorUnits(1)))
	assert.Equal(t, int64(8550), ToMinorUnits(decimal.RequireFromString("85.50")))
}

func TestMinimumPaymentDue(t *testing.T) {
	tests := []struct {
		balance string
		want    string
	}{
		{"0", "25.00"},
		{"500.00", "25.00"},
		{"1250.00", "25.00"},
		{"2000.00", "40.00"},
		{"1333.33", "26.67"},
	}
	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			got := MinimumPaymentDue(decimal.RequireFromString(tt.balance))
			assert.Equal(t, tt.want, FormatMoney(got))
		})
	}
}

package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits kept for every monetary value.
const MoneyScale = 2

var (
	// MinimumPaymentFloor is the lowest minimum payment a statement can ask for.
	MinimumPaymentFloor = decimal.NewFromInt(25)
	// MinimumPaymentRate is the share of the closing balance due as minimum payment.
	MinimumPaymentRate = decimal.RequireFromString("0.02")
)

// FromMinorUnits converts an integer amount in minor units (cents) to currency units.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MoneyScale)
}

// ToMinorUnits converts a currency amount back to minor units, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(MoneyScale).Round(0).IntPart()
}

// RoundMoney rounds to cents.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// FormatMoney renders an amount with exactly two decimals, e.g. "50.00".
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyScale)
}

// MinimumPaymentDue returns max(25.00, balance * 2%) rounded to cents.
func MinimumPaymentDue(closingBalance decimal.Decimal) decimal.Decimal {
	return RoundMoney(decimal.Max(MinimumPaymentFloor, closingBalance.Mul(MinimumPaymentRate)))
}

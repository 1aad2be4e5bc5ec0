package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a credit account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountClosed    AccountStatus = "CLOSED"
)

// IsValid reports whether s is a known account status.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountClosed:
		return true
	}
	return false
}

const (
	MinStatementClosingDay = 1
	MaxStatementClosingDay = 28
)

// Account is a revolving credit line owned by a user.
// CurrentBalance is the amount owed and is never negative.
type Account struct {
	AccountID           string          `json:"accountID"`
	UserID              string          `json:"userID"`
	CreditLimit         decimal.Decimal `json:"creditLimit"`
	CurrentBalance      decimal.Decimal `json:"currentBalance"`
	APR                 decimal.Decimal `json:"apr"`
	StatementClosingDay int             `json:"statementClosingDay"` // 1..28
	PaymentDueDays      int             `json:"paymentDueDays"`
	Status              AccountStatus   `json:"status"`
	AuditFields
}

// AvailableCredit is CreditLimit - CurrentBalance. It is derived, never stored.
func (a Account) AvailableCredit() decimal.Decimal {
	return a.CreditLimit.Sub(a.CurrentBalance)
}

// IsActive reports whether the account may take new charges.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// Validate checks the static invariants of an account record.
func (a Account) Validate() error {
	if a.AccountID == "" {
		return fmt.Errorf("account id is required")
	}
	if !a.CreditLimit.IsPositive() {
		return fmt.Errorf("credit limit must be positive, got %s", FormatMoney(a.CreditLimit))
	}
	if a.CurrentBalance.IsNegative() {
		return fmt.Errorf("current balance cannot be negative, got %s", FormatMoney(a.CurrentBalance))
	}
	if a.StatementClosingDay < MinStatementClosingDay || a.StatementClosingDay > MaxStatementClosingDay {
		return fmt.Errorf("statement closing day must be between %d and %d, got %d", MinStatementClosingDay, MaxStatementClosingDay, a.StatementClosingDay)
	}
	if a.PaymentDueDays < 0 {
		return fmt.Errorf("payment due days cannot be negative, got %d", a.PaymentDueDays)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("unknown account status %q", a.Status)
	}
	return nil
}

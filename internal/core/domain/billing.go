package domain

import "time"

// BillingPeriod is the closed date range [Start, End] of one billing cycle.
// End is the statement closing date.
type BillingPeriod struct {
	Start time.Time
	End   time.Time
}

// BillingPeriodFor returns the cycle containing on for an account closing on closingDay.
// The cycle ends on closingDay of on's month when on has not passed it yet,
// otherwise on closingDay of the following month. closingDay is 1..28 so
// month arithmetic never overflows.
func BillingPeriodFor(closingDay int, on time.Time) BillingPeriod {
	day := truncateToDate(on)
	end := time.Date(day.Year(), day.Month(), closingDay, 0, 0, 0, 0, time.UTC)
	if day.Day() > closingDay {
		end = end.AddDate(0, 1, 0)
	}
	return BillingPeriod{
		Start: end.AddDate(0, -1, 1),
		End:   end,
	}
}

// Contains reports whether t falls on a date inside the period.
func (p BillingPeriod) Contains(t time.Time) bool {
	d := truncateToDate(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// PaymentDueDate is the closing date plus the account's grace days.
func (p BillingPeriod) PaymentDueDate(dueDays int) time.Time {
	return p.End.AddDate(0, 0, dueDays)
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

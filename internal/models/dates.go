package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar days
const DateLayout = "2006-01-02"

// MoneyScale is the number of decimal places every decimal(15,2) column keeps
const MoneyScale = 2

// FitsMoneyScale reports whether d is stored without rounding
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// Day returns the calendar day of t in loc as a UTC midnight value, the
// representation used for every date-granular column.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD (or RFC3339) string into a calendar day
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t, loc), nil
}

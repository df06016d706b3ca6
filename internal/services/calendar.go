package services

import (
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
)

// Calendar resolves "today" in the business time zone
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar creates a calendar on the wall clock
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

// Today returns the current business day as a date value
func (c Calendar) Today() time.Time {
	return models.Day(c.now(), c.Location)
}

// DayOf normalizes t to its business day. Values that are already a UTC
// midnight are taken as calendar dates and returned unchanged.
func (c Calendar) DayOf(t time.Time) time.Time {
	if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
		return t
	}
	return models.Day(t, c.Location)
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

package reports

import (
	"strings"
	"time"

	"github.com/balcao/backend/models"
)

// FilterSpec narrows a report. Dates are inclusive calendar bounds: DateFrom
// starts at 00:00:00.000 and DateTo ends at 23:59:59.999, local time. Text
// fields are case-insensitive substrings; empty fields match everything.
type FilterSpec struct {
	DateFrom      time.Time
	DateTo        time.Time
	Customer      string
	Product       string
	Supplier      string
	PaymentMethod string
	Venue         string
}

// Bounds returns the instant range pushed down to storage. Zero means open.
func (f FilterSpec) Bounds() (time.Time, time.Time) {
	var from, to time.Time
	if !f.DateFrom.IsZero() {
		from = models.CalendarDay(f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		to = models.CalendarDay(f.DateTo).AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return from, to
}

func (f FilterSpec) inRange(t time.Time) bool {
	from, to := f.Bounds()
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

func contains(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

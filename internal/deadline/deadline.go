// Package deadline computes working-day deadlines and the urgency badge shown
// next to every tracked document. Business days are Monday to Friday; there
// is no holiday calendar.
package deadline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidDate is returned when a date string matches none of the accepted layouts.
	ErrInvalidDate = errors.New("invalid date")
	// ErrNoBudget is returned when a deadline is requested for a non-positive budget.
	ErrNoBudget = errors.New("working-day budget must be positive")
)

// LabelLayout formats due dates inside badge labels.
const LabelLayout = "Jan 2, 2006"

// zoned layouts carry their own offset; the result is converted into the target location.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// local layouts are interpreted in the target location.
var localLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	"1/2/2006",
}

// ParseDate is the one parser used for every date field. It accepts ISO-8601
// dates and timestamps and MM/DD/YYYY strings and returns local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t.In(loc)), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return StartOfDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ComputeDeadline advances start by budgetDays business days. The start day
// itself is never counted.
func ComputeDeadline(start time.Time, budgetDays int) (time.Time, error) {
	if budgetDays <= 0 {
		return time.Time{}, ErrNoBudget
	}

	d := StartOfDay(start)
	for counted := 0; counted < budgetDays; {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			counted++
		}
	}
	return d, nil
}

// RemainingBusinessDays counts business days in (from, to] on midnight
// boundaries. It is 0 when to is not after from.
func RemainingBusinessDays(from, to time.Time) int {
	f := StartOfDay(from)
	t := StartOfDay(to.In(from.Location()))

	n := 0
	for d := f.AddDate(0, 0, 1); !d.After(t); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			n++
		}
	}
	return n
}

// IsOverdue reports whether now is past the end of the deadline day.
func IsOverdue(now, due time.Time) bool {
	endOfDay := StartOfDay(due).AddDate(0, 0, 1)
	return !now.Before(endOfDay)
}

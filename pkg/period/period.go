// Package period resolves report period selectors into inclusive calendar
// date windows.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is an inclusive [From, To] date range. Both bounds are dates
// (midnight UTC); intraday precision is not meaningful for sales windows.
type Window struct {
	From time.Time
	To   time.Time
}

// Empty reports whether no order date can fall inside the window.
func (w Window) Empty() bool {
	return w.From.After(w.To)
}

// Contains reports whether the given date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	d := truncate(date)
	return !d.Before(w.From) && !d.After(w.To)
}

// Day returns the single-day window [d, d].
func Day(d time.Time) Window {
	day := truncate(d)
	return Window{From: day, To: day}
}

// Month returns the window covering the whole calendar month, respecting
// variable month length including leap-year February.
func Month(year int, month time.Month) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return Window{From: from, To: to}
}

// Year returns [Jan 1, Dec 31] of the given year.
func Year(year int) Window {
	return Window{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Custom returns the caller-supplied window. A reversed range is returned
// as-is; aggregation over it yields an empty result rather than an error.
func Custom(from, to time.Time) Window {
	return Window{From: truncate(from), To: truncate(to)}
}

// ParseDay parses a YYYY-MM-DD selector.
func ParseDay(value string) (Window, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return Window{}, fmt.Errorf("invalid day %q: %w", value, err)
	}
	return Day(d), nil
}

// ParseMonth parses a YYYY-MM selector.
func ParseMonth(value string) (Window, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return Window{}, fmt.Errorf("invalid month %q: %w", value, err)
	}
	return Month(t.Year(), t.Month()), nil
}

// ParseYear parses a YYYY selector.
func ParseYear(value string) (Window, error) {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || year < 1 || year > 9999 {
		return Window{}, fmt.Errorf("invalid year %q", value)
	}
	return Year(year), nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package dashboard

import (
	"fmt"
	"time"

	"github.com/Almonte5/Finance-Tracker/internal/core"
)

// Window is the inclusive date range a summary is computed over.
type Window struct {
	Start time.Time
	End   time.Time
}

// resolveWindow turns optional caller-supplied date strings into a concrete
// window. Missing bounds default to the current calendar month: the first
// day at midnight and the last day at 23:59:59. Malformed dates are a
// caller error, never silently coerced.
func resolveWindow(now time.Time, startStr, endStr string) (Window, error) {
	var w Window

	if startStr != "" {
		t, err := core.ParseDate(startStr)
		if err != nil {
			return Window{}, fmt.Errorf("startDate %q: %w", startStr, err)
		}
		w.Start = t
	} else {
		w.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}

	if endStr != "" {
		t, err := core.ParseDate(endStr)
		if err != nil {
			return Window{}, fmt.Errorf("endDate %q: %w", endStr, err)
		}
		w.End = t
	} else {
		lastDay := daysIn(now.Year(), now.Month())
		w.End = time.Date(now.Year(), now.Month(), lastDay, 23, 59, 59, 0, now.Location())
	}

	return w, nil
}

// shiftMonthBack moves t back exactly one calendar month, keeping the same
// day where it exists. When the shifted month is shorter (Jan 31 back to
// December has day 31, but Mar 31 back to February does not), the day is
// clamped to the last valid day of the shifted month. time.AddDate would
// normalize the overflow forward instead, so the clamp is explicit.
func shiftMonthBack(t time.Time) time.Time {
	anchor := time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := daysIn(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// previous derives the comparison window by shifting both bounds back one
// calendar month.
func (w Window) previous() Window {
	return Window{Start: shiftMonthBack(w.Start), End: shiftMonthBack(w.End)}
}

// monthWindow returns the first-to-last-day bounds of the calendar month
// containing the given month offset from now (offset 0 = current month).
func monthWindow(now time.Time, offset int) Window {
	first := time.Date(now.Year(), now.Month()-time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	last := time.Date(first.Year(), first.Month(), daysIn(first.Year(), first.Month()),
		23, 59, 59, 0, now.Location())
	return Window{Start: first, End: last}
}

// daysIn returns the number of days in the given month. Day 0 of the next
// month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

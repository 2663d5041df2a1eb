// Package schedule generates the ordered sequence of purchase dates for a
// DCA plan. Generation is deterministic given the frequency, the duration
// in months, and the instant of computation, which is always injected by
// the caller so the sequence is reproducible in tests.
package schedule

import (
	"time"

	"github.com/johnayoung/go-dca-simulator/internal/models"
)

// Dates returns the purchase dates for the given cadence, oldest first.
//
// The window starts at now minus durationMonths calendar months and ends at
// now, inclusive on both ends. Daily and weekly cadences step by fixed 1-
// and 7-day increments; monthly steps by one calendar month so the
// day-of-month is preserved across month-length variation. When a step
// lands past the end of a shorter month the day is clamped to that month's
// last day (Jan 31 -> Feb 28, or Feb 29 in a leap year).
//
// The configuration is validated at the input boundary before this is
// called; durationMonths is assumed positive here.
func Dates(frequency models.Frequency, durationMonths int, now time.Time) []time.Time {
	now = now.UTC()
	start := AddMonths(now, -durationMonths)

	var dates []time.Time
	current := start
	for !current.After(now) {
		dates = append(dates, current)
		switch frequency {
		case models.FrequencyDaily:
			current = current.AddDate(0, 0, 1)
		case models.FrequencyWeekly:
			current = current.AddDate(0, 0, 7)
		default:
			current = AddMonths(current, 1)
		}
	}
	return dates
}

// AddMonths shifts t by the given number of calendar months, clamping the
// day-of-month to the target month's length instead of letting it
// normalize into the following month.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		hour, min, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month. Day zero of the
// following month resolves to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Package recurrence generates the future occurrences of a recurring task.
//
// Expansion is a pure function over its arguments: the same pattern and
// anchor always produce the same sequence, so callers may safely re-run it.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/jacquesvida12/RemindersApp/internal/models"
)

// Occurrences is the number of future due dates generated after the anchor.
// The anchor itself is occurrence zero and is persisted by the caller.
const Occurrences = 14

var (
	ErrInvalidSeparationCount = errors.New("separation count must be a positive integer")
	ErrUnknownRecurringType   = errors.New("unknown recurring type")
)

// Validate checks a recurrence definition without expanding it. An unknown
// type is rejected outright rather than degrading into a no-op advance.
func Validate(recurringType string, separationCount int) error {
	if separationCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSeparationCount, separationCount)
	}
	switch recurringType {
	case models.RecurringDaily, models.RecurringWeekly, models.RecurringMonthly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRecurringType, recurringType)
	}
}

// Expand returns the due dates of the next Occurrences occurrences after
// anchor, strictly increasing, spaced separationCount intervals apart.
//
// Daily and Weekly use plain calendar-day arithmetic. Monthly advances by
// calendar months and clamps the day of month to the last valid day of the
// target month when the current day does not exist there (Jan 31 + 1 month
// is Feb 28 or 29). The clamp is applied per step, so once the running date
// lands on a day every month has, no further clamping occurs.
func Expand(recurringType string, separationCount int, anchor time.Time) ([]time.Time, error) {
	if err := Validate(recurringType, separationCount); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, Occurrences)
	current := anchor
	for i := 0; i < Occurrences; i++ {
		switch recurringType {
		case models.RecurringDaily:
			current = current.AddDate(0, 0, separationCount)
		case models.RecurringWeekly:
			current = current.AddDate(0, 0, separationCount*7)
		case models.RecurringMonthly:
			current = addMonthsClamped(current, separationCount)
		}
		dates = append(dates, current)
	}
	return dates, nil
}

// addMonthsClamped advances t by months calendar months, keeping the day of
// month where possible and clamping to the target month's last day otherwise.
// time.Time.AddDate normalizes overflow (Jan 31 + 1 month = Mar 2/3), which
// is not what a human means by "monthly".
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	month += time.Month(months)

	last := lastDayOfMonth(year, month)
	if day > last {
		day = last
	}

	hour, minute, sec := t.Clock()
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

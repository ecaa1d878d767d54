package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacquesvida12/RemindersApp/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func TestExpandDaily(t *testing.T) {
	anchor := date(2025, time.March, 1)

	dates, err := Expand(models.RecurringDaily, 3, anchor)
	require.NoError(t, err)
	require.Len(t, dates, Occurrences)

	prev := anchor
	for _, d := range dates {
		assert.Equal(t, prev.AddDate(0, 0, 3), d)
		assert.True(t, d.After(prev), "dates must be strictly increasing")
		prev = d
	}
}

func TestExpandWeekly(t *testing.T) {
	anchor := date(2025, time.March, 1)

	dates, err := Expand(models.RecurringWeekly, 2, anchor)
	require.NoError(t, err)
	require.Len(t, dates, Occurrences)

	prev := anchor
	for _, d := range dates {
		assert.Equal(t, prev.AddDate(0, 0, 14), d)
		prev = d
	}
}

func TestExpandMonthlyClampsToEndOfMonth(t *testing.T) {
	// Jan 31 in a leap year: February clamps to the 29th, and from there
	// every later month has a 29th, so no further clamping happens.
	anchor := date(2024, time.January, 31)

	dates, err := Expand(models.RecurringMonthly, 1, anchor)
	require.NoError(t, err)
	require.Len(t, dates, Occurrences)

	assert.Equal(t, date(2024, time.February, 29), dates[0])
	assert.Equal(t, date(2024, time.March, 29), dates[1])
	assert.Equal(t, date(2024, time.April, 29), dates[2])
}

func TestExpandMonthlyClampsNonLeapFebruary(t *testing.T) {
	anchor := date(2025, time.January, 31)

	dates, err := Expand(models.RecurringMonthly, 1, anchor)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), dates[0])
	assert.Equal(t, date(2025, time.March, 28), dates[1])
}

func TestExpandMonthlyPreservesTimeOfDay(t *testing.T) {
	anchor := time.Date(2024, time.May, 31, 18, 45, 12, 0, time.UTC)

	dates, err := Expand(models.RecurringMonthly, 1, anchor)
	require.NoError(t, err)

	first := dates[0]
	assert.Equal(t, time.Date(2024, time.June, 30, 18, 45, 12, 0, time.UTC), first)
}

func TestExpandIsDeterministic(t *testing.T) {
	anchor := date(2025, time.July, 15)

	first, err := Expand(models.RecurringWeekly, 1, anchor)
	require.NoError(t, err)
	second, err := Expand(models.RecurringWeekly, 1, anchor)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExpandRejectsNonPositiveSeparationCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		_, err := Expand(models.RecurringDaily, count, date(2025, time.March, 1))
		assert.ErrorIs(t, err, ErrInvalidSeparationCount)
	}
}

func TestExpandRejectsUnknownRecurringType(t *testing.T) {
	_, err := Expand("Yearly", 1, date(2025, time.March, 1))
	assert.ErrorIs(t, err, ErrUnknownRecurringType)

	_, err = Expand("", 1, date(2025, time.March, 1))
	assert.ErrorIs(t, err, ErrUnknownRecurringType)
}

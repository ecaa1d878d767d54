package models

import "time"

const (
	RecurringDaily   = "Daily"
	RecurringWeekly  = "Weekly"
	RecurringMonthly = "Monthly"
)

type RecurringPattern struct {
	ID              string
	RecurringType   string
	SeparationCount int
	// DayOfWeek and DayOfMonth are stored with the pattern and returned
	// to clients, but the expansion algorithm does not consume them.
	DayOfWeek  *int
	DayOfMonth *int
	StartDate  time.Time
	CreatedAt  time.Time
}

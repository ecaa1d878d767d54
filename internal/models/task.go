package models

import "time"

type Task struct {
	ID                 string
	UserID             string
	Title              string
	DueDate            time.Time
	IsCompleted        bool
	RecurringPatternID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

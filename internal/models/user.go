package models

import "time"

type User struct {
	ID                string
	Username          string
	Password          string
	ProfilePictureURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

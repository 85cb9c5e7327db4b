package entity

import "time"

// School representa una escuela (tenant del sistema). Todo dato escolar cuelga de una School.
type School struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

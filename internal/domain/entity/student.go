package entity

import "time"

// Student representa un alumno acompañado por la escuela.
type Student struct {
	ID           string
	SchoolID     string
	ClassID      *string
	Name         string
	Enrollment   string // matrícula
	BirthDate    *time.Time
	GuardianName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

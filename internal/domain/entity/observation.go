package entity

import "time"

// Observation registro libre de un docente sobre un alumno.
type Observation struct {
	ID          string
	StudentID   string
	ProfessorID string
	Text        string
	Date        time.Time
	CreatedAt   time.Time
}

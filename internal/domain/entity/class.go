package entity

import "time"

// Turnos válidos de una turma.
const (
	ShiftMorning   = "manha"
	ShiftAfternoon = "tarde"
	ShiftEvening   = "noite"
	ShiftFullTime  = "integral"
)

// Class representa una turma (grupo de alumnos de un año lectivo).
type Class struct {
	ID         string
	SchoolID   string
	Name       string
	SchoolYear int
	Shift      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package entity

import "time"

// Activity representa una actividad asignada a una turma en una materia.
// ProfessorID es el docente dueño; un Professor solo puede crear actividades propias.
type Activity struct {
	ID          string
	SchoolID    string
	ClassID     string
	SubjectID   string
	ProfessorID string
	Title       string
	Description string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package entity

import "time"

// Subject representa una materia dictada en una escuela.
type Subject struct {
	ID          string
	SchoolID    string
	Name        string
	Workload    int     // carga horaria anual en horas
	ProfessorID *string // docente responsable, opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package entity

import "time"

// MedicalCondition entrada del catálogo de condiciones (TEA, TDAH, dislexia...).
type MedicalCondition struct {
	ID          string
	Name        string
	CID         string // código CID-10/11
	Description string
	CreatedAt   time.Time
}

// StudentCondition asignación de una condición a un alumno.
type StudentCondition struct {
	StudentID   string
	ConditionID string
	Notes       string
	AssignedAt  time.Time
	Condition   *MedicalCondition // rellenado en lecturas
}

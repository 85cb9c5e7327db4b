package dto

import "time"

// SubjectRequest entrada para crear o actualizar una materia.
type SubjectRequest struct {
	Nome         string  `json:"nome" validate:"required,min=1,max=100"`
	CargaHoraria int     `json:"cargaHoraria" validate:"min=0,max=2000"`
	ProfessorID  *string `json:"professorId,omitempty" validate:"omitempty,uuid"`
	EscolaID     string  `json:"escolaId" validate:"omitempty,uuid"`
}

// SubjectResponse salida de una materia.
type SubjectResponse struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	CargaHoraria int       `json:"cargaHoraria"`
	ProfessorID  *string   `json:"professorId,omitempty"`
	EscolaID     string    `json:"escolaId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

package dto

import "time"

// ActivityRequest entrada para crear o actualizar una actividad.
// Para un Professor, ProfessorID se reemplaza siempre por su propio id.
type ActivityRequest struct {
	Titulo      string     `json:"titulo" validate:"required,min=2,max=200"`
	Descricao   string     `json:"descricao" validate:"max=4000"`
	DataEntrega *time.Time `json:"dataEntrega,omitempty"`
	TurmaID     string     `json:"turmaId" validate:"required,uuid"`
	MateriaID   string     `json:"materiaId" validate:"required,uuid"`
	ProfessorID string     `json:"professorId" validate:"omitempty,uuid"`
	EscolaID    string     `json:"escolaId" validate:"omitempty,uuid"`
}

// ActivityResponse salida de una actividad.
type ActivityResponse struct {
	ID          string     `json:"id"`
	Titulo      string     `json:"titulo"`
	Descricao   string     `json:"descricao"`
	DataEntrega *time.Time `json:"dataEntrega,omitempty"`
	TurmaID     string     `json:"turmaId"`
	MateriaID   string     `json:"materiaId"`
	ProfessorID string     `json:"professorId"`
	EscolaID    string     `json:"escolaId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

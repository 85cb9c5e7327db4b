package dto

import "time"

// TeacherRequest entrada para crear o actualizar un docente.
// Senha es obligatoria al crear y opcional al actualizar (vacía = se conserva).
type TeacherRequest struct {
	Nome     string `json:"nome" validate:"required,min=2,max=200"`
	Registro string `json:"registro" validate:"required,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Senha    string `json:"senha,omitempty" validate:"omitempty,min=6"`
	Cargo    string `json:"cargo" validate:"required,cargo"`
	EscolaID string `json:"escolaId" validate:"omitempty,uuid"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// TeacherResponse salida de un docente (sin hash de senha).
type TeacherResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Registro  string    `json:"registro"`
	Email     string    `json:"email"`
	Cargo     string    `json:"cargo"`
	EscolaID  string    `json:"escolaId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccessResponse cargos que el usuario actual puede asignar (GET /api/docentes/acessos).
type AccessResponse struct {
	Cargos []string `json:"cargos"`
}

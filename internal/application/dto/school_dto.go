package dto

import "time"

// SchoolRequest entrada para crear o actualizar una escuela.
type SchoolRequest struct {
	Nome     string `json:"nome" validate:"required,min=2,max=200"`
	Endereco string `json:"endereco" validate:"max=300"`
	Telefone string `json:"telefone" validate:"max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// SchoolResponse salida de una escuela.
type SchoolResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Endereco  string    `json:"endereco"`
	Telefone  string    `json:"telefone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package dto

import "time"

// ClassRequest entrada para crear o actualizar una turma.
type ClassRequest struct {
	Nome      string `json:"nome" validate:"required,min=1,max=100"`
	AnoLetivo int    `json:"anoLetivo" validate:"required,min=2000,max=2100"`
	Turno     string `json:"turno" validate:"required,oneof=manha tarde noite integral"`
	EscolaID  string `json:"escolaId" validate:"omitempty,uuid"`
}

// ClassResponse salida de una turma.
type ClassResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	AnoLetivo int       `json:"anoLetivo"`
	Turno     string    `json:"turno"`
	EscolaID  string    `json:"escolaId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

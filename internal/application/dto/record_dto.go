package dto

import "time"

// ObservationRequest POST /api/observacoes.
type ObservationRequest struct {
	AlunoID string     `json:"alunoId" validate:"required,uuid"`
	Texto   string     `json:"texto" validate:"required,min=1,max=4000"`
	Data    *time.Time `json:"data,omitempty"`
}

// ObservationResponse observación registrada.
type ObservationResponse struct {
	ID          string    `json:"id"`
	AlunoID     string    `json:"alunoId"`
	ProfessorID string    `json:"professorId"`
	Texto       string    `json:"texto"`
	Data        time.Time `json:"data"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EvaluationRequest POST /api/avaliacoes. Escalas 1–5.
type EvaluationRequest struct {
	AlunoID       string     `json:"alunoId" validate:"required,uuid"`
	Data          *time.Time `json:"data,omitempty"`
	Atencao       int        `json:"atencao" validate:"required,min=1,max=5"`
	Interacao     int        `json:"interacao" validate:"required,min=1,max=5"`
	Autonomia     int        `json:"autonomia" validate:"required,min=1,max=5"`
	Comportamento int        `json:"comportamento" validate:"required,min=1,max=5"`
	Comentario    string     `json:"comentario" validate:"max=4000"`
}

// EvaluationResponse evaluación registrada.
type EvaluationResponse struct {
	ID            string    `json:"id"`
	AlunoID       string    `json:"alunoId"`
	ProfessorID   string    `json:"professorId"`
	Data          time.Time `json:"data"`
	Atencao       int       `json:"atencao"`
	Interacao     int       `json:"interacao"`
	Autonomia     int       `json:"autonomia"`
	Comportamento int       `json:"comportamento"`
	Comentario    string    `json:"comentario"`
	CreatedAt     time.Time `json:"createdAt"`
}

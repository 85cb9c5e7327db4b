package dto

import "time"

// ConditionRequest alta en el catálogo de condiciones.
type ConditionRequest struct {
	Nome      string `json:"nome" validate:"required,min=2,max=150"`
	CID       string `json:"cid" validate:"max=20"`
	Descricao string `json:"descricao" validate:"max=2000"`
}

// ConditionResponse entrada del catálogo.
type ConditionResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	CID       string    `json:"cid"`
	Descricao string    `json:"descricao"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssignConditionRequest POST /api/condicoes/atribuir.
type AssignConditionRequest struct {
	AlunoID    string `json:"alunoId" validate:"required,uuid"`
	CondicaoID string `json:"condicaoId" validate:"required,uuid"`
	Observacao string `json:"observacao" validate:"max=2000"`
}

// StudentConditionResponse condición asignada a un alumno.
type StudentConditionResponse struct {
	CondicaoID  string    `json:"condicaoId"`
	Nome        string    `json:"nome"`
	CID         string    `json:"cid"`
	Observacao  string    `json:"observacao"`
	AtribuidaEm time.Time `json:"atribuidaEm"`
}

package dto

import "time"

// StudentRequest entrada para crear o actualizar un alumno.
type StudentRequest struct {
	Nome           string     `json:"nome" validate:"required,min=2,max=200"`
	Matricula      string     `json:"matricula" validate:"required,max=50"`
	DataNascimento *time.Time `json:"dataNascimento,omitempty"`
	Responsavel    string     `json:"responsavel" validate:"max=200"`
	TurmaID        *string    `json:"turmaId,omitempty" validate:"omitempty,uuid"`
	EscolaID       string     `json:"escolaId" validate:"omitempty,uuid"`
}

// StudentResponse salida de un alumno.
type StudentResponse struct {
	ID             string     `json:"id"`
	Nome           string     `json:"nome"`
	Matricula      string     `json:"matricula"`
	DataNascimento *time.Time `json:"dataNascimento,omitempty"`
	Responsavel    string     `json:"responsavel"`
	TurmaID        *string    `json:"turmaId,omitempty"`
	EscolaID       string     `json:"escolaId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// StudentFullDataResponse expediente consolidado de un alumno (GET /api/alunos/{id}/full-data).
// Es también el documento que se envía al proveedor de IA.
type StudentFullDataResponse struct {
	Aluno       StudentResponse            `json:"aluno"`
	Escola      *SchoolResponse            `json:"escola,omitempty"`
	Turma       *ClassResponse             `json:"turma,omitempty"`
	Condicoes   []StudentConditionResponse `json:"condicoes"`
	Notas       []GradeResponse            `json:"notas"`
	Avaliacoes  []EvaluationResponse       `json:"avaliacoes"`
	Observacoes []ObservationResponse      `json:"observacoes"`
}

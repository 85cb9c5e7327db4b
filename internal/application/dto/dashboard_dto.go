package dto

import "github.com/shopspring/decimal"

// DashboardResponse panel de inicio de una escuela.
type DashboardResponse struct {
	EscolaID          string                   `json:"escolaId"`
	AnoLetivo         int                      `json:"anoLetivo"`
	Docentes          int                      `json:"docentes"`
	Turmas            int                      `json:"turmas"`
	Materias          int                      `json:"materias"`
	Alunos            int                      `json:"alunos"`
	AlunosComCondicao int                      `json:"alunosComCondicao"`
	InsightsRecentes  int                      `json:"insightsRecentes"` // últimos 30 días
	MediasPorMateria  []SubjectAverageResponse `json:"mediasPorMateria"`
}

// SubjectAverageResponse media anual de una materia.
type SubjectAverageResponse struct {
	MateriaID string          `json:"materiaId"`
	Nome      string          `json:"nome"`
	Media     decimal.Decimal `json:"media"`
	Notas     int             `json:"notas"`
}

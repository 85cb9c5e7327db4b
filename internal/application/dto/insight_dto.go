package dto

import "time"

// GenerateInsightRequest POST /api/insights/aluno/{id}.
type GenerateInsightRequest struct {
	Prompt string `json:"prompt" validate:"required,min=3,max=2000"`
}

// InsightResponse insight generado (o del historial).
type InsightResponse struct {
	ID        string    `json:"id"`
	AlunoID   string    `json:"alunoId"`
	AutorID   string    `json:"autorId"`
	Prompt    string    `json:"prompt"`
	Conteudo  string    `json:"conteudo"`
	Provedor  string    `json:"provedor"`
	CreatedAt time.Time `json:"createdAt"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GradeItem una nota dentro del lote (POST /api/notasBimestrais/salvarLote).
type GradeItem struct {
	AlunoID   string              `json:"alunoId" validate:"required,uuid"`
	MateriaID string              `json:"materiaId" validate:"required,uuid"`
	AnoLetivo int                 `json:"anoLetivo" validate:"required,min=2000,max=2100"`
	Bimestre  int                 `json:"bimestre" validate:"required,min=1,max=4"`
	// ausente o null deja Valid en false y el lote se rechaza
	Nota      decimal.NullDecimal `json:"nota" swaggertype:"string"`
}

// SaveGradesRequest lote de notas; se guarda en una sola transacción.
type SaveGradesRequest struct {
	Notas []GradeItem `json:"notas" validate:"required,min=1,max=500,dive"`
}

// GradeResponse nota bimestral.
type GradeResponse struct {
	ID        string          `json:"id"`
	AlunoID   string          `json:"alunoId"`
	MateriaID string          `json:"materiaId"`
	Materia   string          `json:"materia,omitempty"`
	AnoLetivo int             `json:"anoLetivo"`
	Bimestre  int             `json:"bimestre"`
	Nota      decimal.Decimal `json:"nota"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SaveGradesResponse resultado del lote.
type SaveGradesResponse struct {
	Salvas int `json:"salvas"`
}

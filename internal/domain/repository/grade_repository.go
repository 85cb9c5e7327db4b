package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// GradeRepository notas bimestrales.
type GradeRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]*entity.BimonthlyGrade, error)
	// Upsert inserta o actualiza por (alumno, materia, año, bimestre).
	Upsert(ctx context.Context, grade *entity.BimonthlyGrade) error
}

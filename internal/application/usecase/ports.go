package usecase

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// GradeTxRunner ejecuta fn dentro de una transacción, con el repositorio de notas atado a ella.
// Si fn devuelve error no se persiste ninguna nota del lote.
type GradeTxRunner interface {
	RunGrades(ctx context.Context, fn func(grades repository.GradeRepository) error) error
}

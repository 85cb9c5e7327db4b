package usecase

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// writeSchool resuelve la escuela destino de una alta: los no administradores quedan fijados
// a la suya; un administrador debe indicarla (escolaId o viewingSchoolId).
func writeSchool(actor domain.Actor, requested, viewing string) (string, error) {
	if requested == "" {
		requested = viewing
	}
	school := actor.EffectiveSchool(requested)
	if school == "" {
		return "", domain.ErrInvalidInput
	}
	return school, nil
}

// studentGuard carga un alumno y verifica que el actor puede acceder a su escuela.
type studentGuard struct {
	students repository.StudentRepository
}

func (g studentGuard) load(ctx context.Context, actor domain.Actor, studentID string) (*entity.Student, error) {
	student, err := g.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccessSchool(student.SchoolID) {
		return nil, domain.ErrForbidden
	}
	return student, nil
}

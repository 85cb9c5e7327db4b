package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// ConditionRepository catálogo de condiciones y su asignación a alumnos.
type ConditionRepository interface {
	Create(ctx context.Context, condition *entity.MedicalCondition) error
	GetByID(ctx context.Context, id string) (*entity.MedicalCondition, error)
	List(ctx context.Context) ([]*entity.MedicalCondition, error)
	// Assign es idempotente: reasignar actualiza las notas.
	Assign(ctx context.Context, assignment *entity.StudentCondition) error
	ListByStudent(ctx context.Context, studentID string) ([]*entity.StudentCondition, error)
}

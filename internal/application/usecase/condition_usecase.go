package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// ConditionUseCase catálogo de condiciones y su asignación a alumnos.
type ConditionUseCase struct {
	repo     repository.ConditionRepository
	students studentGuard
}

// NewConditionUseCase construye el caso de uso.
func NewConditionUseCase(repo repository.ConditionRepository, students repository.StudentRepository) *ConditionUseCase {
	return &ConditionUseCase{repo: repo, students: studentGuard{students}}
}

// Create agrega una condición al catálogo (compartido entre escuelas).
func (uc *ConditionUseCase) Create(ctx context.Context, in dto.ConditionRequest) (*dto.ConditionResponse, error) {
	condition := &entity.MedicalCondition{
		ID:          uuid.New().String(),
		Name:        in.Nome,
		CID:         in.CID,
		Description: in.Descricao,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, condition); err != nil {
		return nil, err
	}
	out := toConditionResponse(condition)
	return &out, nil
}

// List devuelve el catálogo completo.
func (uc *ConditionUseCase) List(ctx context.Context) ([]dto.ConditionResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ConditionResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toConditionResponse(c))
	}
	return items, nil
}

// Assign asigna una condición a un alumno visible para el actor.
// Reasignar la misma condición actualiza la observación.
func (uc *ConditionUseCase) Assign(ctx context.Context, actor domain.Actor, in dto.AssignConditionRequest) (*dto.StudentConditionResponse, error) {
	if _, err := uc.students.load(ctx, actor, in.AlunoID); err != nil {
		return nil, err
	}
	condition, err := uc.repo.GetByID(ctx, in.CondicaoID)
	if err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, domain.ErrNotFound
	}
	assignment := &entity.StudentCondition{
		StudentID:   in.AlunoID,
		ConditionID: in.CondicaoID,
		Notes:       in.Observacao,
		AssignedAt:  time.Now(),
		Condition:   condition,
	}
	if err := uc.repo.Assign(ctx, assignment); err != nil {
		return nil, err
	}
	out := toStudentConditionResponse(assignment)
	return &out, nil
}

func toConditionResponse(c *entity.MedicalCondition) dto.ConditionResponse {
	return dto.ConditionResponse{
		ID:        c.ID,
		Nome:      c.Name,
		CID:       c.CID,
		Descricao: c.Description,
		CreatedAt: c.CreatedAt,
	}
}

func toStudentConditionResponse(sc *entity.StudentCondition) dto.StudentConditionResponse {
	out := dto.StudentConditionResponse{
		CondicaoID:  sc.ConditionID,
		Observacao:  sc.Notes,
		AtribuidaEm: sc.AssignedAt,
	}
	if sc.Condition != nil {
		out.Nome = sc.Condition.Name
		out.CID = sc.Condition.CID
	}
	return out
}

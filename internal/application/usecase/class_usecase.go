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

// ClassUseCase casos de uso CRUD para turmas.
type ClassUseCase struct {
	repo repository.ClassRepository
}

// NewClassUseCase construye el caso de uso.
func NewClassUseCase(repo repository.ClassRepository) *ClassUseCase {
	return &ClassUseCase{repo: repo}
}

// Create crea una turma en la escuela del actor (o la indicada, si es administrador).
func (uc *ClassUseCase) Create(ctx context.Context, actor domain.Actor, in dto.ClassRequest, viewingSchoolID string) (*dto.ClassResponse, error) {
	schoolID, err := writeSchool(actor, in.EscolaID, viewingSchoolID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	class := &entity.Class{
		ID:         uuid.New().String(),
		SchoolID:   schoolID,
		Name:       in.Nome,
		SchoolYear: in.AnoLetivo,
		Shift:      in.Turno,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, class); err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

// GetByID obtiene una turma.
func (uc *ClassUseCase) GetByID(ctx context.Context, actor domain.Actor, id string) (*dto.ClassResponse, error) {
	class, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

// List lista turmas de la escuela resuelta por el alcance de la petición.
func (uc *ClassUseCase) List(ctx context.Context, schoolID string) ([]dto.ClassResponse, error) {
	list, err := uc.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClassResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClassResponse(c))
	}
	return items, nil
}

// Update actualiza una turma. La escuela no cambia.
func (uc *ClassUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.ClassRequest) (*dto.ClassResponse, error) {
	class, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	class.Name = in.Nome
	class.SchoolYear = in.AnoLetivo
	class.Shift = in.Turno
	class.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, class); err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

// Delete elimina una turma.
func (uc *ClassUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ClassUseCase) load(ctx context.Context, actor domain.Actor, id string) (*entity.Class, error) {
	class, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccessSchool(class.SchoolID) {
		return nil, domain.ErrForbidden
	}
	return class, nil
}

func toClassResponse(c *entity.Class) *dto.ClassResponse {
	if c == nil {
		return nil
	}
	return &dto.ClassResponse{
		ID:        c.ID,
		Nome:      c.Name,
		AnoLetivo: c.SchoolYear,
		Turno:     c.Shift,
		EscolaID:  c.SchoolID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

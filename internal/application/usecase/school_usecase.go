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

// SchoolUseCase casos de uso CRUD para escuelas.
type SchoolUseCase struct {
	repo repository.SchoolRepository
}

// NewSchoolUseCase construye el caso de uso con el puerto de persistencia.
func NewSchoolUseCase(repo repository.SchoolRepository) *SchoolUseCase {
	return &SchoolUseCase{repo: repo}
}

// Create crea una escuela. Solo administradores.
func (uc *SchoolUseCase) Create(ctx context.Context, actor domain.Actor, in dto.SchoolRequest) (*dto.SchoolResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	school := &entity.School{
		ID:        uuid.New().String(),
		Name:      in.Nome,
		Address:   in.Endereco,
		Phone:     in.Telefone,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, school); err != nil {
		return nil, err
	}
	return toSchoolResponse(school), nil
}

// GetByID obtiene una escuela visible para el actor.
func (uc *SchoolUseCase) GetByID(ctx context.Context, actor domain.Actor, id string) (*dto.SchoolResponse, error) {
	school, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toSchoolResponse(school), nil
}

// List devuelve todas las escuelas para un administrador y solo la propia para el resto.
func (uc *SchoolUseCase) List(ctx context.Context, actor domain.Actor) ([]dto.SchoolResponse, error) {
	if !actor.IsAdmin() {
		school, err := uc.repo.GetByID(ctx, actor.SchoolID)
		if err != nil {
			return nil, err
		}
		if school == nil {
			return []dto.SchoolResponse{}, nil
		}
		return []dto.SchoolResponse{*toSchoolResponse(school)}, nil
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SchoolResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSchoolResponse(s))
	}
	return items, nil
}

// Update actualiza una escuela. Solo administradores.
func (uc *SchoolUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.SchoolRequest) (*dto.SchoolResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	school, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	school.Name = in.Nome
	school.Address = in.Endereco
	school.Phone = in.Telefone
	school.Email = in.Email
	school.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, school); err != nil {
		return nil, err
	}
	return toSchoolResponse(school), nil
}

// Delete elimina una escuela (y en cascada sus datos). Solo administradores.
func (uc *SchoolUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SchoolUseCase) load(ctx context.Context, actor domain.Actor, id string) (*entity.School, error) {
	school, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccessSchool(school.ID) {
		return nil, domain.ErrForbidden
	}
	return school, nil
}

func toSchoolResponse(s *entity.School) *dto.SchoolResponse {
	if s == nil {
		return nil
	}
	return &dto.SchoolResponse{
		ID:        s.ID,
		Nome:      s.Name,
		Endereco:  s.Address,
		Telefone:  s.Phone,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

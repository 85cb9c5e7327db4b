package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// StudentFilter filtros opcionales del listado de alumnos (vacío = sin filtro).
type StudentFilter struct {
	SchoolID string
	ClassID  string
}

// StudentRepository define el puerto de persistencia para Student (DIP).
type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	GetByID(ctx context.Context, id string) (*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	List(ctx context.Context, filter StudentFilter) ([]*entity.Student, error)
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// TeacherRepository define el puerto de persistencia para Teacher (DIP).
type TeacherRepository interface {
	Create(ctx context.Context, teacher *entity.Teacher) error
	GetByID(ctx context.Context, id string) (*entity.Teacher, error)
	GetByRegistro(ctx context.Context, registro string) (*entity.Teacher, error)
	Update(ctx context.Context, teacher *entity.Teacher) error
	// ListBySchool con schoolID vacío devuelve todas las escuelas.
	ListBySchool(ctx context.Context, schoolID string) ([]*entity.Teacher, error)
	Delete(ctx context.Context, id string) error
}

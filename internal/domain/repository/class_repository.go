package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// ClassRepository define el puerto de persistencia para Class (DIP).
type ClassRepository interface {
	Create(ctx context.Context, class *entity.Class) error
	GetByID(ctx context.Context, id string) (*entity.Class, error)
	Update(ctx context.Context, class *entity.Class) error
	// ListBySchool con schoolID vacío devuelve todas las escuelas.
	ListBySchool(ctx context.Context, schoolID string) ([]*entity.Class, error)
	Delete(ctx context.Context, id string) error
}

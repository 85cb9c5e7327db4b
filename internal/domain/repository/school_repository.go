package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// SchoolRepository define el puerto de persistencia para School (DIP).
type SchoolRepository interface {
	Create(ctx context.Context, school *entity.School) error
	GetByID(ctx context.Context, id string) (*entity.School, error)
	Update(ctx context.Context, school *entity.School) error
	List(ctx context.Context) ([]*entity.School, error)
	Delete(ctx context.Context, id string) error
}

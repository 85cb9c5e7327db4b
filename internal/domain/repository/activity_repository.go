package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// ActivityFilter filtros opcionales del listado de actividades.
type ActivityFilter struct {
	SchoolID    string
	ProfessorID string
	ClassID     string
}

// ActivityRepository define el puerto de persistencia para Activity (DIP).
type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	Update(ctx context.Context, activity *entity.Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]*entity.Activity, error)
	Delete(ctx context.Context, id string) error
}

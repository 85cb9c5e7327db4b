package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// SubjectRepository define el puerto de persistencia para Subject (DIP).
type SubjectRepository interface {
	Create(ctx context.Context, subject *entity.Subject) error
	GetByID(ctx context.Context, id string) (*entity.Subject, error)
	Update(ctx context.Context, subject *entity.Subject) error
	ListBySchool(ctx context.Context, schoolID string) ([]*entity.Subject, error)
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// ObservationRepository observaciones de docentes por alumno.
type ObservationRepository interface {
	Create(ctx context.Context, observation *entity.Observation) error
	ListByStudent(ctx context.Context, studentID string) ([]*entity.Observation, error)
}

// EvaluationRepository evaluaciones socioemocionales por alumno.
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	ListByStudent(ctx context.Context, studentID string) ([]*entity.Evaluation, error)
}

// InsightRepository historial de insights generados por alumno.
type InsightRepository interface {
	Create(ctx context.Context, insight *entity.Insight) error
	ListByStudent(ctx context.Context, studentID string) ([]*entity.Insight, error)
}

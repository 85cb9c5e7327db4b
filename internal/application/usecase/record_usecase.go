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

// ObservationUseCase observaciones libres de docentes sobre alumnos.
type ObservationUseCase struct {
	repo     repository.ObservationRepository
	students studentGuard
}

// NewObservationUseCase construye el caso de uso.
func NewObservationUseCase(repo repository.ObservationRepository, students repository.StudentRepository) *ObservationUseCase {
	return &ObservationUseCase{repo: repo, students: studentGuard{students}}
}

// Create registra una observación firmada por el actor.
func (uc *ObservationUseCase) Create(ctx context.Context, actor domain.Actor, in dto.ObservationRequest) (*dto.ObservationResponse, error) {
	if _, err := uc.students.load(ctx, actor, in.AlunoID); err != nil {
		return nil, err
	}
	now := time.Now()
	obs := &entity.Observation{
		ID:          uuid.New().String(),
		StudentID:   in.AlunoID,
		ProfessorID: actor.UserID,
		Text:        in.Texto,
		Date:        dateOr(in.Data, now),
		CreatedAt:   now,
	}
	if err := uc.repo.Create(ctx, obs); err != nil {
		return nil, err
	}
	out := toObservationResponse(obs)
	return &out, nil
}

// ListByStudent historial de observaciones del alumno, más recientes primero.
func (uc *ObservationUseCase) ListByStudent(ctx context.Context, actor domain.Actor, studentID string) ([]dto.ObservationResponse, error) {
	if _, err := uc.students.load(ctx, actor, studentID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ObservationResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toObservationResponse(o))
	}
	return items, nil
}

// EvaluationUseCase evaluaciones socioemocionales.
type EvaluationUseCase struct {
	repo     repository.EvaluationRepository
	students studentGuard
}

// NewEvaluationUseCase construye el caso de uso.
func NewEvaluationUseCase(repo repository.EvaluationRepository, students repository.StudentRepository) *EvaluationUseCase {
	return &EvaluationUseCase{repo: repo, students: studentGuard{students}}
}

// Create registra una evaluación firmada por el actor.
func (uc *EvaluationUseCase) Create(ctx context.Context, actor domain.Actor, in dto.EvaluationRequest) (*dto.EvaluationResponse, error) {
	if _, err := uc.students.load(ctx, actor, in.AlunoID); err != nil {
		return nil, err
	}
	for _, v := range []int{in.Atencao, in.Interacao, in.Autonomia, in.Comportamento} {
		if v < entity.EvaluationScaleMin || v > entity.EvaluationScaleMax {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	ev := &entity.Evaluation{
		ID:          uuid.New().String(),
		StudentID:   in.AlunoID,
		ProfessorID: actor.UserID,
		Date:        dateOr(in.Data, now),
		Attention:   in.Atencao,
		Interaction: in.Interacao,
		Autonomy:    in.Autonomia,
		Behavior:    in.Comportamento,
		Comment:     in.Comentario,
		CreatedAt:   now,
	}
	if err := uc.repo.Create(ctx, ev); err != nil {
		return nil, err
	}
	out := toEvaluationResponse(ev)
	return &out, nil
}

// ListByStudent historial de evaluaciones del alumno.
func (uc *EvaluationUseCase) ListByStudent(ctx context.Context, actor domain.Actor, studentID string) ([]dto.EvaluationResponse, error) {
	if _, err := uc.students.load(ctx, actor, studentID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EvaluationResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEvaluationResponse(e))
	}
	return items, nil
}

func dateOr(d *time.Time, def time.Time) time.Time {
	if d == nil || d.IsZero() {
		return def
	}
	return *d
}

func toObservationResponse(o *entity.Observation) dto.ObservationResponse {
	return dto.ObservationResponse{
		ID:          o.ID,
		AlunoID:     o.StudentID,
		ProfessorID: o.ProfessorID,
		Texto:       o.Text,
		Data:        o.Date,
		CreatedAt:   o.CreatedAt,
	}
}

func toEvaluationResponse(e *entity.Evaluation) dto.EvaluationResponse {
	return dto.EvaluationResponse{
		ID:            e.ID,
		AlunoID:       e.StudentID,
		ProfessorID:   e.ProfessorID,
		Data:          e.Date,
		Atencao:       e.Attention,
		Interacao:     e.Interaction,
		Autonomia:     e.Autonomy,
		Comportamento: e.Behavior,
		Comentario:    e.Comment,
		CreatedAt:     e.CreatedAt,
	}
}

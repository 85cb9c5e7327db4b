package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

var (
	_ repository.ObservationRepository = (*ObservationRepo)(nil)
	_ repository.EvaluationRepository  = (*EvaluationRepo)(nil)
	_ repository.InsightRepository     = (*InsightRepo)(nil)
)

// ObservationRepo observaciones sobre PostgreSQL.
type ObservationRepo struct {
	q Querier
}

// NewObservationRepository construye el adaptador.
func NewObservationRepository(q Querier) *ObservationRepo {
	return &ObservationRepo{q: q}
}

func (r *ObservationRepo) Create(ctx context.Context, o *entity.Observation) error {
	query := `
		INSERT INTO observations (id, student_id, professor_id, text, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, o.ID, o.StudentID, o.ProfessorID, o.Text, o.Date, o.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

func (r *ObservationRepo) ListByStudent(ctx context.Context, studentID string) ([]*entity.Observation, error) {
	query := `
		SELECT id, student_id, professor_id, text, date, created_at
		FROM observations WHERE student_id = $1
		ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Observation
	for rows.Next() {
		var o entity.Observation
		if err := rows.Scan(&o.ID, &o.StudentID, &o.ProfessorID, &o.Text, &o.Date, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// EvaluationRepo evaluaciones socioemocionales sobre PostgreSQL.
type EvaluationRepo struct {
	q Querier
}

// NewEvaluationRepository construye el adaptador.
func NewEvaluationRepository(q Querier) *EvaluationRepo {
	return &EvaluationRepo{q: q}
}

func (r *EvaluationRepo) Create(ctx context.Context, e *entity.Evaluation) error {
	query := `
		INSERT INTO evaluations
			(id, student_id, professor_id, date, attention, interaction, autonomy, behavior, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.StudentID, e.ProfessorID, e.Date, e.Attention, e.Interaction, e.Autonomy, e.Behavior,
		e.Comment, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (r *EvaluationRepo) ListByStudent(ctx context.Context, studentID string) ([]*entity.Evaluation, error) {
	query := `
		SELECT id, student_id, professor_id, date, attention, interaction, autonomy, behavior, comment, created_at
		FROM evaluations WHERE student_id = $1
		ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Evaluation
	for rows.Next() {
		var e entity.Evaluation
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.ProfessorID, &e.Date, &e.Attention, &e.Interaction, &e.Autonomy,
			&e.Behavior, &e.Comment, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// InsightRepo historial de insights sobre PostgreSQL.
type InsightRepo struct {
	q Querier
}

// NewInsightRepository construye el adaptador.
func NewInsightRepository(q Querier) *InsightRepo {
	return &InsightRepo{q: q}
}

func (r *InsightRepo) Create(ctx context.Context, in *entity.Insight) error {
	query := `
		INSERT INTO insights (id, student_id, author_id, prompt, content, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, in.ID, in.StudentID, in.AuthorID, in.Prompt, in.Content, in.Provider, in.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// ListByStudent devuelve el historial, más reciente primero.
func (r *InsightRepo) ListByStudent(ctx context.Context, studentID string) ([]*entity.Insight, error) {
	query := `
		SELECT id, student_id, author_id, prompt, content, provider, created_at
		FROM insights WHERE student_id = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()
	var list []*entity.Insight
	for rows.Next() {
		var in entity.Insight
		if err := rows.Scan(&in.ID, &in.StudentID, &in.AuthorID, &in.Prompt, &in.Content, &in.Provider, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		list = append(list, &in)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

var _ repository.SubjectRepository = (*SubjectRepo)(nil)

// SubjectRepo materias sobre PostgreSQL.
type SubjectRepo struct {
	q Querier
}

// NewSubjectRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSubjectRepository(q Querier) *SubjectRepo {
	return &SubjectRepo{q: q}
}

const subjectColumns = `id, school_id, name, workload, professor_id, created_at, updated_at`

func (r *SubjectRepo) Create(ctx context.Context, s *entity.Subject) error {
	query := `INSERT INTO subjects (` + subjectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.SchoolID, s.Name, s.Workload, nullIfEmpty(s.ProfessorID), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

func (r *SubjectRepo) GetByID(ctx context.Context, id string) (*entity.Subject, error) {
	s, err := scanSubject(r.q.QueryRow(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return s, nil
}

func (r *SubjectRepo) Update(ctx context.Context, s *entity.Subject) error {
	query := `UPDATE subjects SET name = $2, workload = $3, professor_id = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Workload, nullIfEmpty(s.ProfessorID), s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SubjectRepo) ListBySchool(ctx context.Context, schoolID string) ([]*entity.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE ($1 = '' OR school_id::text = $1) ORDER BY name`
	rows, err := r.q.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SubjectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubject(row pgx.Row) (*entity.Subject, error) {
	var s entity.Subject
	if err := row.Scan(&s.ID, &s.SchoolID, &s.Name, &s.Workload, &s.ProfessorID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

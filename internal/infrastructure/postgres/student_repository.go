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

var _ repository.StudentRepository = (*StudentRepo)(nil)

// StudentRepo alumnos sobre PostgreSQL.
type StudentRepo struct {
	q Querier
}

// NewStudentRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStudentRepository(q Querier) *StudentRepo {
	return &StudentRepo{q: q}
}

const studentColumns = `id, school_id, class_id, name, enrollment, birth_date, guardian_name, created_at, updated_at`

func (r *StudentRepo) Create(ctx context.Context, s *entity.Student) error {
	query := `INSERT INTO students (` + studentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.SchoolID, nullIfEmpty(s.ClassID), s.Name, s.Enrollment, s.BirthDate, s.GuardianName,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (r *StudentRepo) GetByID(ctx context.Context, id string) (*entity.Student, error) {
	s, err := scanStudent(r.q.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

func (r *StudentRepo) Update(ctx context.Context, s *entity.Student) error {
	query := `
		UPDATE students
		SET class_id = $2, name = $3, enrollment = $4, birth_date = $5, guardian_name = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, nullIfEmpty(s.ClassID), s.Name, s.Enrollment, s.BirthDate, s.GuardianName, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por escuela y/o turma; filtros vacíos no restringen.
func (r *StudentRepo) List(ctx context.Context, f repository.StudentFilter) ([]*entity.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE ($1 = '' OR school_id::text = $1)
		  AND ($2 = '' OR class_id::text = $2)
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, f.SchoolID, f.ClassID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()
	var list []*entity.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete borra el alumno; notas, evaluaciones, observaciones e insights caen en cascada.
func (r *StudentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanStudent(row pgx.Row) (*entity.Student, error) {
	var s entity.Student
	if err := row.Scan(
		&s.ID, &s.SchoolID, &s.ClassID, &s.Name, &s.Enrollment, &s.BirthDate, &s.GuardianName,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

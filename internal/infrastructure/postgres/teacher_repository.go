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

var _ repository.TeacherRepository = (*TeacherRepo)(nil)

// TeacherRepo implementación del puerto TeacherRepository sobre PostgreSQL.
type TeacherRepo struct {
	q Querier
}

// NewTeacherRepository construye el adaptador. Acepta pool o tx (Querier).
func NewTeacherRepository(q Querier) *TeacherRepo {
	return &TeacherRepo{q: q}
}

const teacherColumns = `id, school_id, name, registro, email, password_hash, role, status, created_at, updated_at`

func (r *TeacherRepo) Create(ctx context.Context, t *entity.Teacher) error {
	query := `INSERT INTO teachers (` + teacherColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.SchoolID, t.Name, t.Registro, t.Email, t.PasswordHash, string(t.Role), t.Status,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRegistroAlreadyUsed
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

func (r *TeacherRepo) GetByID(ctx context.Context, id string) (*entity.Teacher, error) {
	return r.getOne(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
}

func (r *TeacherRepo) GetByRegistro(ctx context.Context, registro string) (*entity.Teacher, error) {
	return r.getOne(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE registro = $1`, registro)
}

func (r *TeacherRepo) getOne(ctx context.Context, query string, arg string) (*entity.Teacher, error) {
	t, err := scanTeacher(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	return t, nil
}

func (r *TeacherRepo) Update(ctx context.Context, t *entity.Teacher) error {
	query := `
		UPDATE teachers
		SET school_id = $2, name = $3, registro = $4, email = $5, password_hash = $6,
		    role = $7, status = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.SchoolID, t.Name, t.Registro, t.Email, t.PasswordHash, string(t.Role), t.Status, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRegistroAlreadyUsed
		}
		return fmt.Errorf("update teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBySchool lista docentes de una escuela; schoolID vacío lista todos.
func (r *TeacherRepo) ListBySchool(ctx context.Context, schoolID string) ([]*entity.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE ($1 = '' OR school_id::text = $1) ORDER BY name`
	rows, err := r.q.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TeacherRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTeacher(row pgx.Row) (*entity.Teacher, error) {
	var t entity.Teacher
	var role string
	if err := row.Scan(
		&t.ID, &t.SchoolID, &t.Name, &t.Registro, &t.Email, &t.PasswordHash, &role, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	t.Role = parsed
	return &t, nil
}

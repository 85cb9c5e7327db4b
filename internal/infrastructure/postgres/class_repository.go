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

var _ repository.ClassRepository = (*ClassRepo)(nil)

// ClassRepo turmas sobre PostgreSQL.
type ClassRepo struct {
	q Querier
}

// NewClassRepository construye el adaptador. Acepta pool o tx (Querier).
func NewClassRepository(q Querier) *ClassRepo {
	return &ClassRepo{q: q}
}

const classColumns = `id, school_id, name, school_year, shift, created_at, updated_at`

func (r *ClassRepo) Create(ctx context.Context, c *entity.Class) error {
	query := `INSERT INTO classes (` + classColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.ID, c.SchoolID, c.Name, c.SchoolYear, c.Shift, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

func (r *ClassRepo) GetByID(ctx context.Context, id string) (*entity.Class, error) {
	c, err := scanClass(r.q.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

func (r *ClassRepo) Update(ctx context.Context, c *entity.Class) error {
	query := `UPDATE classes SET name = $2, school_year = $3, shift = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.SchoolYear, c.Shift, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClassRepo) ListBySchool(ctx context.Context, schoolID string) ([]*entity.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE ($1 = '' OR school_id::text = $1) ORDER BY school_year DESC, name`
	rows, err := r.q.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *ClassRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanClass(row pgx.Row) (*entity.Class, error) {
	var c entity.Class
	if err := row.Scan(&c.ID, &c.SchoolID, &c.Name, &c.SchoolYear, &c.Shift, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

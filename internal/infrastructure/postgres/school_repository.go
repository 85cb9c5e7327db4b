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

var _ repository.SchoolRepository = (*SchoolRepo)(nil)

// SchoolRepo implementación del puerto SchoolRepository sobre PostgreSQL.
type SchoolRepo struct {
	q Querier
}

// NewSchoolRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSchoolRepository(q Querier) *SchoolRepo {
	return &SchoolRepo{q: q}
}

const schoolColumns = `id, name, address, phone, email, created_at, updated_at`

func (r *SchoolRepo) Create(ctx context.Context, s *entity.School) error {
	query := `INSERT INTO schools (` + schoolColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.Phone, s.Email, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert school: %w", err)
	}
	return nil
}

func (r *SchoolRepo) GetByID(ctx context.Context, id string) (*entity.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE id = $1`
	s, err := scanSchool(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return s, nil
}

func (r *SchoolRepo) Update(ctx context.Context, s *entity.School) error {
	query := `UPDATE schools SET name = $2, address = $3, phone = $4, email = $5, updated_at = $6 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.Phone, s.Email, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SchoolRepo) List(ctx context.Context) ([]*entity.School, error) {
	rows, err := r.q.Query(ctx, `SELECT `+schoolColumns+` FROM schools ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()
	var list []*entity.School
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SchoolRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSchool(row pgx.Row) (*entity.School, error) {
	var s entity.School
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

var _ repository.GradeRepository = (*GradeRepo)(nil)

// GradeRepo notas bimestrales sobre PostgreSQL. La columna grade es NUMERIC(4,2)
// y se mapea a decimal.Decimal vía pgx-shopspring-decimal (registrado en el pool).
type GradeRepo struct {
	q Querier
}

// NewGradeRepository construye el adaptador. Acepta pool o tx (Querier).
func NewGradeRepository(q Querier) *GradeRepo {
	return &GradeRepo{q: q}
}

func (r *GradeRepo) ListByStudent(ctx context.Context, studentID string) ([]*entity.BimonthlyGrade, error) {
	query := `
		SELECT id, student_id, subject_id, school_year, bimester, grade, updated_by, created_at, updated_at
		FROM bimonthly_grades
		WHERE student_id = $1
		ORDER BY school_year DESC, subject_id, bimester`
	rows, err := r.q.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	defer rows.Close()
	var list []*entity.BimonthlyGrade
	for rows.Next() {
		var g entity.BimonthlyGrade
		if err := rows.Scan(
			&g.ID, &g.StudentID, &g.SubjectID, &g.SchoolYear, &g.Bimester, &g.Grade, &g.UpdatedBy,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza por (student_id, subject_id, school_year, bimester).
// Devuelve en g el id y created_at efectivos de la fila.
func (r *GradeRepo) Upsert(ctx context.Context, g *entity.BimonthlyGrade) error {
	query := `
		INSERT INTO bimonthly_grades
			(id, student_id, subject_id, school_year, bimester, grade, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (student_id, subject_id, school_year, bimester) DO UPDATE
		SET grade = EXCLUDED.grade, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		g.ID, g.StudentID, g.SubjectID, g.SchoolYear, g.Bimester, g.Grade, g.UpdatedBy,
		g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

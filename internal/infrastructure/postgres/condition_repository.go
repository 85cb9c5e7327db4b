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

var _ repository.ConditionRepository = (*ConditionRepo)(nil)

// ConditionRepo catálogo de condiciones y asignaciones sobre PostgreSQL.
type ConditionRepo struct {
	q Querier
}

// NewConditionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewConditionRepository(q Querier) *ConditionRepo {
	return &ConditionRepo{q: q}
}

const conditionColumns = `id, name, cid, description, created_at`

func (r *ConditionRepo) Create(ctx context.Context, c *entity.MedicalCondition) error {
	query := `INSERT INTO medical_conditions (` + conditionColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.CID, c.Description, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert condition: %w", err)
	}
	return nil
}

func (r *ConditionRepo) GetByID(ctx context.Context, id string) (*entity.MedicalCondition, error) {
	var c entity.MedicalCondition
	err := r.q.QueryRow(ctx, `SELECT `+conditionColumns+` FROM medical_conditions WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CID, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get condition: %w", err)
	}
	return &c, nil
}

func (r *ConditionRepo) List(ctx context.Context) ([]*entity.MedicalCondition, error) {
	rows, err := r.q.Query(ctx, `SELECT `+conditionColumns+` FROM medical_conditions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	defer rows.Close()
	var list []*entity.MedicalCondition
	for rows.Next() {
		var c entity.MedicalCondition
		if err := rows.Scan(&c.ID, &c.Name, &c.CID, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan condition: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Assign inserta la asignación o actualiza las notas si ya existe.
func (r *ConditionRepo) Assign(ctx context.Context, a *entity.StudentCondition) error {
	query := `
		INSERT INTO student_conditions (student_id, condition_id, notes, assigned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, condition_id) DO UPDATE SET notes = EXCLUDED.notes`
	_, err := r.q.Exec(ctx, query, a.StudentID, a.ConditionID, a.Notes, a.AssignedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("assign condition: %w", err)
	}
	return nil
}

func (r *ConditionRepo) ListByStudent(ctx context.Context, studentID string) ([]*entity.StudentCondition, error) {
	query := `
		SELECT sc.student_id, sc.condition_id, sc.notes, sc.assigned_at,
		       mc.id, mc.name, mc.cid, mc.description, mc.created_at
		FROM student_conditions sc
		JOIN medical_conditions mc ON mc.id = sc.condition_id
		WHERE sc.student_id = $1
		ORDER BY mc.name`
	rows, err := r.q.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student conditions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StudentCondition
	for rows.Next() {
		var (
			a entity.StudentCondition
			c entity.MedicalCondition
		)
		if err := rows.Scan(
			&a.StudentID, &a.ConditionID, &a.Notes, &a.AssignedAt,
			&c.ID, &c.Name, &c.CID, &c.Description, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan student condition: %w", err)
		}
		a.Condition = &c
		list = append(list, &a)
	}
	return list, rows.Err()
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// GradeUseCase notas bimestrales: consulta por alumno y guardado por lote.
type GradeUseCase struct {
	repo     repository.GradeRepository
	tx       GradeTxRunner
	students studentGuard
	subjects repository.SubjectRepository
}

// NewGradeUseCase construye el caso de uso.
func NewGradeUseCase(repo repository.GradeRepository, tx GradeTxRunner, students repository.StudentRepository, subjects repository.SubjectRepository) *GradeUseCase {
	return &GradeUseCase{repo: repo, tx: tx, students: studentGuard{students}, subjects: subjects}
}

// ListByStudent devuelve las notas de un alumno visible para el actor.
func (uc *GradeUseCase) ListByStudent(ctx context.Context, actor domain.Actor, studentID string) ([]dto.GradeResponse, error) {
	if _, err := uc.students.load(ctx, actor, studentID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GradeResponse, 0, len(list))
	for _, g := range list {
		items = append(items, toGradeResponse(g))
	}
	return items, nil
}

// SaveBatch valida el lote completo y lo guarda en una única transacción (upsert por
// alumno, materia, año y bimestre). Un ítem inválido rechaza todo el lote.
func (uc *GradeUseCase) SaveBatch(ctx context.Context, actor domain.Actor, in dto.SaveGradesRequest) (*dto.SaveGradesResponse, error) {
	if len(in.Notas) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	schoolOf := make(map[string]string)
	subjectSchool := make(map[string]string)
	grades := make([]*entity.BimonthlyGrade, 0, len(in.Notas))

	for i, item := range in.Notas {
		schoolID, ok := schoolOf[item.AlunoID]
		if !ok {
			student, err := uc.students.load(ctx, actor, item.AlunoID)
			if err != nil {
				return nil, err
			}
			schoolID = student.SchoolID
			schoolOf[item.AlunoID] = schoolID
		}
		subjSchool, ok := subjectSchool[item.MateriaID]
		if !ok {
			subject, err := uc.subjects.GetByID(ctx, item.MateriaID)
			if err != nil {
				return nil, err
			}
			if subject == nil {
				return nil, fmt.Errorf("notas[%d]: materia inexistente: %w", i, domain.ErrInvalidInput)
			}
			subjSchool = subject.SchoolID
			subjectSchool[item.MateriaID] = subjSchool
		}
		if subjSchool != schoolID {
			return nil, fmt.Errorf("notas[%d]: materia de otra escuela: %w", i, domain.ErrInvalidInput)
		}
		if !item.Nota.Valid {
			return nil, fmt.Errorf("notas[%d]: nota obligatoria: %w", i, domain.ErrInvalidInput)
		}
		g := &entity.BimonthlyGrade{
			ID:         uuid.New().String(),
			StudentID:  item.AlunoID,
			SubjectID:  item.MateriaID,
			SchoolYear: item.AnoLetivo,
			Bimester:   item.Bimestre,
			Grade:      item.Nota.Decimal.Round(2),
			UpdatedBy:  actor.UserID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if !g.Valid() {
			return nil, fmt.Errorf("notas[%d]: bimestre 1-4 y nota 0-10: %w", i, domain.ErrInvalidInput)
		}
		grades = append(grades, g)
	}

	err := uc.tx.RunGrades(ctx, func(repo repository.GradeRepository) error {
		for _, g := range grades {
			if err := repo.Upsert(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SaveGradesResponse{Salvas: len(grades)}, nil
}

func toGradeResponse(g *entity.BimonthlyGrade) dto.GradeResponse {
	return dto.GradeResponse{
		ID:        g.ID,
		AlunoID:   g.StudentID,
		MateriaID: g.SubjectID,
		AnoLetivo: g.SchoolYear,
		Bimestre:  g.Bimester,
		Nota:      g.Grade,
		UpdatedAt: g.UpdatedAt,
	}
}

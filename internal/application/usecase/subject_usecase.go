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

// SubjectUseCase casos de uso CRUD para materias.
type SubjectUseCase struct {
	repo     repository.SubjectRepository
	teachers repository.TeacherRepository
}

// NewSubjectUseCase construye el caso de uso.
func NewSubjectUseCase(repo repository.SubjectRepository, teachers repository.TeacherRepository) *SubjectUseCase {
	return &SubjectUseCase{repo: repo, teachers: teachers}
}

// Create crea una materia.
func (uc *SubjectUseCase) Create(ctx context.Context, actor domain.Actor, in dto.SubjectRequest, viewingSchoolID string) (*dto.SubjectResponse, error) {
	schoolID, err := writeSchool(actor, in.EscolaID, viewingSchoolID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProfessor(ctx, schoolID, in.ProfessorID); err != nil {
		return nil, err
	}
	now := time.Now()
	subject := &entity.Subject{
		ID:          uuid.New().String(),
		SchoolID:    schoolID,
		Name:        in.Nome,
		Workload:    in.CargaHoraria,
		ProfessorID: in.ProfessorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

// List lista materias de la escuela resuelta.
func (uc *SubjectUseCase) List(ctx context.Context, schoolID string) ([]dto.SubjectResponse, error) {
	list, err := uc.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubjectResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSubjectResponse(s))
	}
	return items, nil
}

// Update actualiza una materia.
func (uc *SubjectUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.SubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProfessor(ctx, subject.SchoolID, in.ProfessorID); err != nil {
		return nil, err
	}
	subject.Name = in.Nome
	subject.Workload = in.CargaHoraria
	subject.ProfessorID = in.ProfessorID
	subject.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

// Delete elimina una materia.
func (uc *SubjectUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// checkProfessor exige que el docente responsable, si se indica, sea de la misma escuela.
func (uc *SubjectUseCase) checkProfessor(ctx context.Context, schoolID string, professorID *string) error {
	if professorID == nil || *professorID == "" {
		return nil
	}
	teacher, err := uc.teachers.GetByID(ctx, *professorID)
	if err != nil {
		return err
	}
	if teacher == nil || teacher.SchoolID != schoolID {
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *SubjectUseCase) load(ctx context.Context, actor domain.Actor, id string) (*entity.Subject, error) {
	subject, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccessSchool(subject.SchoolID) {
		return nil, domain.ErrForbidden
	}
	return subject, nil
}

func toSubjectResponse(s *entity.Subject) *dto.SubjectResponse {
	if s == nil {
		return nil
	}
	return &dto.SubjectResponse{
		ID:           s.ID,
		Nome:         s.Name,
		CargaHoraria: s.Workload,
		ProfessorID:  s.ProfessorID,
		EscolaID:     s.SchoolID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

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

// ActivityUseCase casos de uso para actividades.
// Un Professor siempre queda como dueño de lo que crea y solo gestiona lo propio.
type ActivityUseCase struct {
	repo     repository.ActivityRepository
	classes  repository.ClassRepository
	subjects repository.SubjectRepository
	teachers repository.TeacherRepository
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityRepository, classes repository.ClassRepository, subjects repository.SubjectRepository, teachers repository.TeacherRepository) *ActivityUseCase {
	return &ActivityUseCase{repo: repo, classes: classes, subjects: subjects, teachers: teachers}
}

// Create crea una actividad. Para un Professor, professorId se fuerza a su propio id.
func (uc *ActivityUseCase) Create(ctx context.Context, actor domain.Actor, in dto.ActivityRequest, viewingSchoolID string) (*dto.ActivityResponse, error) {
	schoolID, err := writeSchool(actor, in.EscolaID, viewingSchoolID)
	if err != nil {
		return nil, err
	}
	professorID, err := uc.owner(ctx, actor, schoolID, in.ProfessorID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, schoolID, in.TurmaID, in.MateriaID); err != nil {
		return nil, err
	}
	now := time.Now()
	activity := &entity.Activity{
		ID:          uuid.New().String(),
		SchoolID:    schoolID,
		ClassID:     in.TurmaID,
		SubjectID:   in.MateriaID,
		ProfessorID: professorID,
		Title:       in.Titulo,
		Description: in.Descricao,
		DueDate:     in.DataEntrega,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return toActivityResponse(activity), nil
}

// GetByID obtiene una actividad.
func (uc *ActivityUseCase) GetByID(ctx context.Context, actor domain.Actor, id string) (*dto.ActivityResponse, error) {
	activity, err := uc.load(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	return toActivityResponse(activity), nil
}

// List lista actividades de la escuela resuelta. Un Professor ve solo las propias.
func (uc *ActivityUseCase) List(ctx context.Context, actor domain.Actor, schoolID, classID string) ([]dto.ActivityResponse, error) {
	filter := repository.ActivityFilter{SchoolID: schoolID, ClassID: classID}
	if actor.Role == domain.RoleProfessor {
		filter.ProfessorID = actor.UserID
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toActivityResponse(a))
	}
	return items, nil
}

// Update actualiza una actividad. La escuela no cambia.
func (uc *ActivityUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.ActivityRequest) (*dto.ActivityResponse, error) {
	activity, err := uc.load(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	professorID, err := uc.owner(ctx, actor, activity.SchoolID, in.ProfessorID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, activity.SchoolID, in.TurmaID, in.MateriaID); err != nil {
		return nil, err
	}
	activity.ClassID = in.TurmaID
	activity.SubjectID = in.MateriaID
	activity.ProfessorID = professorID
	activity.Title = in.Titulo
	activity.Description = in.Descricao
	activity.DueDate = in.DataEntrega
	activity.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return toActivityResponse(activity), nil
}

// Delete elimina una actividad.
func (uc *ActivityUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id, true); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// owner resuelve el docente dueño: el propio actor si es Professor (se ignora lo enviado),
// o el indicado, que debe pertenecer a la escuela.
func (uc *ActivityUseCase) owner(ctx context.Context, actor domain.Actor, schoolID, requested string) (string, error) {
	if actor.Role == domain.RoleProfessor || requested == "" {
		return actor.UserID, nil
	}
	teacher, err := uc.teachers.GetByID(ctx, requested)
	if err != nil {
		return "", err
	}
	if teacher == nil || teacher.SchoolID != schoolID {
		return "", domain.ErrInvalidInput
	}
	return requested, nil
}

func (uc *ActivityUseCase) checkRefs(ctx context.Context, schoolID, classID, subjectID string) error {
	class, err := uc.classes.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if class == nil || class.SchoolID != schoolID {
		return domain.ErrInvalidInput
	}
	subject, err := uc.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if subject == nil || subject.SchoolID != schoolID {
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *ActivityUseCase) load(ctx context.Context, actor domain.Actor, id string, write bool) (*entity.Activity, error) {
	activity, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccessSchool(activity.SchoolID) {
		return nil, domain.ErrForbidden
	}
	if write && actor.Role == domain.RoleProfessor && activity.ProfessorID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return activity, nil
}

func toActivityResponse(a *entity.Activity) *dto.ActivityResponse {
	if a == nil {
		return nil
	}
	return &dto.ActivityResponse{
		ID:          a.ID,
		Titulo:      a.Title,
		Descricao:   a.Description,
		DataEntrega: a.DueDate,
		TurmaID:     a.ClassID,
		MateriaID:   a.SubjectID,
		ProfessorID: a.ProfessorID,
		EscolaID:    a.SchoolID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

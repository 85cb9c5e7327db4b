package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// TeacherUseCase casos de uso para docentes (usuarios con acceso).
type TeacherUseCase struct {
	repo    repository.TeacherRepository
	schools repository.SchoolRepository
}

// NewTeacherUseCase construye el caso de uso.
func NewTeacherUseCase(repo repository.TeacherRepository, schools repository.SchoolRepository) *TeacherUseCase {
	return &TeacherUseCase{repo: repo, schools: schools}
}

// AssignableRoles cargos que el actor puede otorgar: el administrador todos,
// el supervisor Supervisor y Professor, el profesor ninguno.
func AssignableRoles(actor domain.Actor) []domain.Role {
	switch actor.Role {
	case domain.RoleAdministrador:
		return domain.AllRoles()
	case domain.RoleSupervisor:
		return []domain.Role{domain.RoleSupervisor, domain.RoleProfessor}
	default:
		return []domain.Role{}
	}
}

// Access devuelve los cargos asignables (GET /api/docentes/acessos).
func (uc *TeacherUseCase) Access(actor domain.Actor) dto.AccessResponse {
	roles := AssignableRoles(actor)
	out := dto.AccessResponse{Cargos: make([]string, 0, len(roles))}
	for _, r := range roles {
		out.Cargos = append(out.Cargos, r.String())
	}
	return out
}

// Create da de alta un docente con senha hasheada con bcrypt.
func (uc *TeacherUseCase) Create(ctx context.Context, actor domain.Actor, in dto.TeacherRequest, viewingSchoolID string) (*dto.TeacherResponse, error) {
	role, err := uc.checkRole(actor, in.Cargo)
	if err != nil {
		return nil, err
	}
	if in.Senha == "" {
		return nil, domain.ErrInvalidInput
	}
	schoolID, err := writeSchool(actor, in.EscolaID, viewingSchoolID)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureSchool(ctx, schoolID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByRegistro(ctx, in.Registro)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrRegistroAlreadyUsed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	status := in.Status
	if status == "" {
		status = entity.TeacherStatusActive
	}
	teacher := &entity.Teacher{
		ID:           uuid.New().String(),
		SchoolID:     schoolID,
		Name:         in.Nome,
		Registro:     in.Registro,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, teacher); err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

// GetByID obtiene un docente visible para el actor.
func (uc *TeacherUseCase) GetByID(ctx context.Context, actor domain.Actor, id string) (*dto.TeacherResponse, error) {
	teacher, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

// List lista docentes de la escuela ya resuelta por el alcance de la petición.
func (uc *TeacherUseCase) List(ctx context.Context, schoolID string) ([]dto.TeacherResponse, error) {
	list, err := uc.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TeacherResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTeacherResponse(t))
	}
	return items, nil
}

// Update actualiza datos y cargo. Senha vacía conserva la actual.
func (uc *TeacherUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.TeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	// Un supervisor no puede editar a un administrador.
	if !AllowsRole(actor, teacher.Role) {
		return nil, domain.ErrForbidden
	}
	role, err := uc.checkRole(actor, in.Cargo)
	if err != nil {
		return nil, err
	}
	if in.Registro != teacher.Registro {
		existing, err := uc.repo.GetByRegistro(ctx, in.Registro)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrRegistroAlreadyUsed
		}
	}
	if in.Senha != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		teacher.PasswordHash = string(hash)
	}
	if actor.IsAdmin() && in.EscolaID != "" && in.EscolaID != teacher.SchoolID {
		if err := uc.ensureSchool(ctx, in.EscolaID); err != nil {
			return nil, err
		}
		teacher.SchoolID = in.EscolaID
	}
	teacher.Name = in.Nome
	teacher.Registro = in.Registro
	teacher.Email = in.Email
	teacher.Role = role
	if in.Status != "" {
		teacher.Status = in.Status
	}
	teacher.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, teacher); err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

// Delete elimina un docente. Nadie puede eliminarse a sí mismo.
func (uc *TeacherUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	teacher, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if teacher.ID == actor.UserID || !AllowsRole(actor, teacher.Role) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

// AllowsRole indica si el actor puede otorgar (o administrar a quien tiene) el cargo dado.
func AllowsRole(actor domain.Actor, role domain.Role) bool {
	return role.In(AssignableRoles(actor)...)
}

func (uc *TeacherUseCase) checkRole(actor domain.Actor, cargo string) (domain.Role, error) {
	role, err := domain.ParseRole(cargo)
	if err != nil {
		return "", err
	}
	if !AllowsRole(actor, role) {
		return "", domain.ErrForbidden
	}
	return role, nil
}

func (uc *TeacherUseCase) ensureSchool(ctx context.Context, schoolID string) error {
	school, err := uc.schools.GetByID(ctx, schoolID)
	if err != nil {
		return err
	}
	if school == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *TeacherUseCase) load(ctx context.Context, actor domain.Actor, id string) (*entity.Teacher, error) {
	teacher, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccessSchool(teacher.SchoolID) {
		return nil, domain.ErrForbidden
	}
	return teacher, nil
}

func toTeacherResponse(t *entity.Teacher) *dto.TeacherResponse {
	if t == nil {
		return nil
	}
	return &dto.TeacherResponse{
		ID:        t.ID,
		Nome:      t.Name,
		Registro:  t.Registro,
		Email:     t.Email,
		Cargo:     t.Role.String(),
		EscolaID:  t.SchoolID,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapInput escuela y administrador iniciales.
type BootstrapInput struct {
	SchoolName    string
	AdminName     string
	AdminRegistro string
	AdminSenha    string
}

// BootstrapResult qué se creó en esta ejecución.
type BootstrapResult struct {
	SchoolID          string
	AdminID           string
	AdminCreated      bool
	ConditionsCreated int
}

// DefaultConditions catálogo inicial de condiciones (CID-10).
var DefaultConditions = []entity.MedicalCondition{
	{Name: "TEA", CID: "F84.0", Description: "Transtorno do Espectro Autista"},
	{Name: "TDAH", CID: "F90.0", Description: "Transtorno do Déficit de Atenção com Hiperatividade"},
	{Name: "Dislexia", CID: "F81.0", Description: "Transtorno específico de leitura"},
	{Name: "Discalculia", CID: "F81.2", Description: "Transtorno específico da habilidade em aritmética"},
	{Name: "Deficiência Intelectual", CID: "F79", Description: "Deficiência intelectual não especificada"},
	{Name: "Síndrome de Down", CID: "Q90", Description: "Trissomia do cromossomo 21"},
}

// BootstrapUseCase deja el sistema utilizable en una base vacía. Es idempotente:
// si el registro del administrador ya existe no crea nada nuevo para él.
type BootstrapUseCase struct {
	schools    repository.SchoolRepository
	teachers   repository.TeacherRepository
	conditions repository.ConditionRepository
}

// NewBootstrapUseCase construye el caso de uso.
func NewBootstrapUseCase(
	schools repository.SchoolRepository,
	teachers repository.TeacherRepository,
	conditions repository.ConditionRepository,
) *BootstrapUseCase {
	return &BootstrapUseCase{schools: schools, teachers: teachers, conditions: conditions}
}

// Run crea (si faltan) la escuela, el administrador y el catálogo indicado.
func (uc *BootstrapUseCase) Run(ctx context.Context, in BootstrapInput, catalogue []entity.MedicalCondition) (*BootstrapResult, error) {
	if in.AdminRegistro == "" || in.AdminSenha == "" {
		return nil, fmt.Errorf("bootstrap: registro y senha del administrador son obligatorios: %w", domain.ErrInvalidInput)
	}
	res := &BootstrapResult{}

	existing, err := uc.teachers.GetByRegistro(ctx, in.AdminRegistro)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		res.SchoolID = existing.SchoolID
		res.AdminID = existing.ID
	} else {
		now := time.Now()
		school := &entity.School{
			ID:        uuid.New().String(),
			Name:      in.SchoolName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.schools.Create(ctx, school); err != nil {
			return nil, fmt.Errorf("bootstrap escuela: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminSenha), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		admin := &entity.Teacher{
			ID:           uuid.New().String(),
			SchoolID:     school.ID,
			Name:         in.AdminName,
			Registro:     in.AdminRegistro,
			PasswordHash: string(hash),
			Role:         domain.RoleAdministrador,
			Status:       entity.TeacherStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.teachers.Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("bootstrap administrador: %w", err)
		}
		res.SchoolID = school.ID
		res.AdminID = admin.ID
		res.AdminCreated = true
	}

	current, err := uc.conditions.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(current))
	for _, c := range current {
		known[strings.ToLower(c.Name)] = true
	}
	for _, c := range catalogue {
		if known[strings.ToLower(c.Name)] {
			continue
		}
		cond := c
		cond.ID = uuid.New().String()
		cond.CreatedAt = time.Now()
		if err := uc.conditions.Create(ctx, &cond); err != nil {
			return nil, fmt.Errorf("bootstrap condición %s: %w", c.Name, err)
		}
		known[strings.ToLower(c.Name)] = true
		res.ConditionsCreated++
	}
	return res, nil
}

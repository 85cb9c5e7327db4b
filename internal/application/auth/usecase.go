package auth

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"github.com/jhoicas/cognitiva-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de docentes por registro y senha.
type AuthUseCase struct {
	teacherRepo repository.TeacherRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(teacherRepo repository.TeacherRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{teacherRepo: teacherRepo, jwtCfg: jwtCfg}
}

// Login verifica registro/senha, genera JWT y retorna token + usuario.
// Registro inexistente y senha incorrecta devuelven el mismo error para no revelar cuentas.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	teacher, err := uc.teacherRepo.GetByRegistro(ctx, in.Registro)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(in.Senha)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if teacher.Status != entity.TeacherStatusActive {
		return nil, domain.ErrForbidden
	}
	if !teacher.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   teacher.ID,
		SchoolID: teacher.SchoolID,
		Role:     teacher.Role.String(),
		Name:     teacher.Name,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserSummary{
			ID:       teacher.ID,
			Nome:     teacher.Name,
			Registro: teacher.Registro,
			Cargo:    teacher.Role.String(),
			EscolaID: teacher.SchoolID,
		},
	}, nil
}

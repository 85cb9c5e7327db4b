package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cognitiva-api/internal/application/auth"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/cognitiva-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T, status string) *auth.AuthUseCase {
	t.Helper()
	st := memory.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.Teachers().Create(context.Background(), &entity.Teacher{
		ID: "u1", SchoolID: "s1", Name: "Ana", Registro: "T001",
		PasswordHash: string(hash), Role: domain.RoleProfessor, Status: status,
	}))
	return auth.NewAuthUseCase(st.Teachers(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"})
}

func TestLogin_Exitoso(t *testing.T) {
	uc := newAuth(t, entity.TeacherStatusActive)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Registro: "T001", Senha: "senha123"})
	require.NoError(t, err)
	assert.Equal(t, "Professor", out.User.Cargo)
	assert.Equal(t, "s1", out.User.EscolaID)

	id, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "Professor", id.Role)
}

func TestLogin_SenhaIncorrecta(t *testing.T) {
	uc := newAuth(t, entity.TeacherStatusActive)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Registro: "T001", Senha: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_RegistroInexistenteMismoError(t *testing.T) {
	uc := newAuth(t, entity.TeacherStatusActive)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Registro: "NOPE", Senha: "senha123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc := newAuth(t, entity.TeacherStatusInactive)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Registro: "T001", Senha: "senha123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

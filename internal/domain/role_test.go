package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Administrador": RoleAdministrador,
		"administrador": RoleAdministrador,
		"  SUPERVISOR ": RoleSupervisor,
		"Professor":     RoleProfessor,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

// Un error tipográfico no debe convertirse en un cargo válido sin diagnóstico.
func TestParseRole_Desconocido(t *testing.T) {
	for _, in := range []string{"", "Admin", "Profesor", "Administrator"} {
		_, err := ParseRole(in)
		assert.True(t, errors.Is(err, ErrInvalidRole), in)
	}
	assert.False(t, Role("Profesor").Valid())
	assert.True(t, RoleSupervisor.Valid())
}

// Valid no normaliza: "administrador" no es el cargo Administrador.
func TestRole_ValidEsExacto(t *testing.T) {
	assert.False(t, Role("administrador").Valid())
	assert.False(t, Role(" Professor").Valid())
	assert.False(t, Role("").Valid())
	for _, r := range AllRoles() {
		assert.True(t, r.Valid(), r)
	}
}

func TestRole_UnmarshalJSON(t *testing.T) {
	var out struct {
		Role Role `json:"roleName"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"roleName":"administrador"}`), &out))
	assert.Equal(t, RoleAdministrador, out.Role)
	assert.True(t, out.Role.In(RoleAdministrador))

	err := json.Unmarshal([]byte(`{"roleName":"Admin"}`), &out)
	assert.True(t, errors.Is(err, ErrInvalidRole))
	assert.Error(t, json.Unmarshal([]byte(`{"roleName":3}`), &out))
}

func TestActor_Alcance(t *testing.T) {
	admin := Actor{UserID: "u1", SchoolID: "s1", Role: RoleAdministrador}
	prof := Actor{UserID: "u2", SchoolID: "s1", Role: RoleProfessor}

	assert.True(t, admin.CanAccessSchool("s2"))
	assert.True(t, prof.CanAccessSchool("s1"))
	assert.False(t, prof.CanAccessSchool("s2"))
	assert.False(t, prof.CanAccessSchool(""))

	assert.Equal(t, "s2", admin.EffectiveSchool("s2"))
	assert.Equal(t, "s1", prof.EffectiveSchool("s2"))
}

package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/client/api"
	"github.com/jhoicas/cognitiva-api/internal/client/gate"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

type fixedSession session.Snapshot

func (f fixedSession) Snapshot() session.Snapshot { return session.Snapshot(f) }

func loggedAs(role domain.Role) fixedSession {
	return fixedSession{Authenticated: true, Token: "tok", User: session.User{ID: "u1", Role: role, SchoolID: "s1"}}
}

func TestCheck(t *testing.T) {
	managers := []domain.Role{domain.RoleAdministrador, domain.RoleSupervisor}
	tests := []struct {
		name    string
		sess    fixedSession
		allowed []domain.Role
		want    gate.Decision
	}{
		{"cargando", fixedSession{Loading: true}, managers, gate.Wait},
		{"sin sesión", fixedSession{}, managers, gate.RedirectLanding},
		{"professor fuera de la lista", loggedAs(domain.RoleProfessor), managers, gate.RedirectUnauthorized},
		{"supervisor en la lista", loggedAs(domain.RoleSupervisor), managers, gate.Render},
		{"lista vacía solo exige sesión", loggedAs(domain.RoleProfessor), nil, gate.Render},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.New(tt.sess, nil).Check(tt.allowed...))
		})
	}
}

func TestGuard_RedirigeAntesDeRenderizar(t *testing.T) {
	for _, role := range domain.AllRoles() {
		if role == domain.RoleAdministrador {
			continue
		}
		var routes []string
		nav := session.NavigatorFunc(func(r string) { routes = append(routes, r) })
		rendered := false

		d, err := gate.New(loggedAs(role), nav).Guard(func() error {
			rendered = true
			return nil
		}, domain.RoleAdministrador)

		assert.Equal(t, gate.RedirectUnauthorized, d, role)
		assert.ErrorIs(t, err, api.ErrForbidden)
		assert.False(t, rendered, "la vista no debe ejecutarse para %s", role)
		assert.Equal(t, []string{session.RouteUnauthorized}, routes)
	}
}

func TestGuard_SinSesionVaALaPortada(t *testing.T) {
	var routes []string
	nav := session.NavigatorFunc(func(r string) { routes = append(routes, r) })
	d, err := gate.New(fixedSession{}, nav).Guard(func() error {
		t.Fatal("no debe renderizar")
		return nil
	})
	assert.Equal(t, gate.RedirectLanding, d)
	assert.ErrorIs(t, err, gate.ErrNotAuthenticated)
	assert.Equal(t, []string{session.RouteLanding}, routes)
}

func TestGuard_CargandoNoHaceNada(t *testing.T) {
	called := false
	nav := session.NavigatorFunc(func(string) { called = true })
	d, err := gate.New(fixedSession{Loading: true}, nav).Guard(func() error {
		t.Fatal("no debe renderizar")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, gate.Wait, d)
	assert.False(t, called)
}

func TestGuard_Render(t *testing.T) {
	rendered := false
	d, err := gate.New(loggedAs(domain.RoleAdministrador), nil).Guard(func() error {
		rendered = true
		return nil
	}, domain.RoleAdministrador)
	require.NoError(t, err)
	assert.Equal(t, gate.Render, d)
	assert.True(t, rendered)
}

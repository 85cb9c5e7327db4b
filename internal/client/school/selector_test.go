package school_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/client/school"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

type fakeAPI struct {
	mu      sync.Mutex
	schools []dto.SchoolResponse
	err     error
	calls   int
}

func (f *fakeAPI) Get(_ context.Context, path string, _ url.Values, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if path != school.PathSchools {
		return errors.New("ruta inesperada " + path)
	}
	raw, _ := json.Marshal(f.schools)
	return json.Unmarshal(raw, out)
}

func admin(home string) session.User {
	return session.User{ID: "adm", Role: domain.RoleAdministrador, SchoolID: home}
}

func TestOnLogin_AdminEligeSuEscuela(t *testing.T) {
	f := &fakeAPI{schools: []dto.SchoolResponse{{ID: "a"}, {ID: "b"}}}
	sel := school.New(f)
	require.NoError(t, sel.OnLogin(context.Background(), admin("b")))
	id, ok := sel.Current()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
	assert.False(t, sel.Locked())
}

func TestOnLogin_AdminSinSuEscuelaTomaLaPrimera(t *testing.T) {
	sel := school.New(&fakeAPI{schools: []dto.SchoolResponse{{ID: "a"}, {ID: "b"}}})
	require.NoError(t, sel.OnLogin(context.Background(), admin("z")))
	id, _ := sel.Current()
	assert.Equal(t, "a", id)
}

func TestOnLogin_AdminSinEscuelas(t *testing.T) {
	sel := school.New(&fakeAPI{})
	require.NoError(t, sel.OnLogin(context.Background(), admin("a")))
	_, ok := sel.Current()
	assert.False(t, ok)
}

func TestOnLogin_NoAdminFijadoSinPeticion(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleSupervisor, domain.RoleProfessor} {
		f := &fakeAPI{schools: []dto.SchoolResponse{{ID: "a"}, {ID: "b"}}}
		sel := school.New(f)
		require.NoError(t, sel.OnLogin(context.Background(), session.User{ID: "u", Role: role, SchoolID: "b"}))

		id, ok := sel.Current()
		assert.True(t, ok)
		assert.Equal(t, "b", id)
		assert.Equal(t, 0, f.calls)
		assert.ErrorIs(t, sel.Set("a"), school.ErrSelectionLocked)
		id, _ = sel.Current()
		assert.Equal(t, "b", id)
	}
}

func TestSet_AdminCambiaYNotifica(t *testing.T) {
	sel := school.New(&fakeAPI{schools: []dto.SchoolResponse{{ID: "a"}, {ID: "b"}}})
	require.NoError(t, sel.OnLogin(context.Background(), admin("a")))

	var seen []string
	sel.Subscribe(func(id string, ok bool) { seen = append(seen, id) })
	require.NoError(t, sel.Set("b"))
	require.NoError(t, sel.Set("b"))
	assert.ErrorIs(t, sel.Set("zzz"), school.ErrUnknownSchool)
	assert.Equal(t, []string{"b"}, seen)
}

func TestOnLogin_ErrorDejaSinSeleccion(t *testing.T) {
	sel := school.New(&fakeAPI{err: errors.New("offline")})
	assert.Error(t, sel.OnLogin(context.Background(), admin("a")))
	_, ok := sel.Current()
	assert.False(t, ok)
}

func TestBind_SigueLaSesion(t *testing.T) {
	f := &fakeAPI{schools: []dto.SchoolResponse{{ID: "a"}}}
	store := session.New(session.NewMemoryStorage(), nil)
	sel := school.New(f)
	defer sel.Bind(context.Background(), store, nil)()

	store.Restore()
	_, ok := sel.Current()
	assert.False(t, ok)

	require.NoError(t, store.Login("tok", admin("a")))
	id, ok := sel.Current()
	assert.True(t, ok)
	assert.Equal(t, "a", id)

	require.NoError(t, store.Logout())
	_, ok = sel.Current()
	assert.False(t, ok)
}

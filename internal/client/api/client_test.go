package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/client/api"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin_401EsCredencialesInvalidas(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","message":"registro ou senha inválidos"}`))
	})
	c := api.New(srv.URL, staticToken("viejo"))

	_, err := c.Login(context.Background(), "T001", "errada")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)
	assert.Equal(t, "Falha ao autenticar. Verifique registro e senha.", err.Error())
}

func TestLogin_OK(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc","user":{"id":"u1","nome":"Ana","cargo":"Administrador","escolaId":"s1"}}`))
	})
	out, err := api.New(srv.URL, nil).Login(context.Background(), "A001", "senha123")
	require.NoError(t, err)
	assert.Equal(t, "abc", out.Token)
	assert.Equal(t, "Administrador", out.User.Cargo)
}

func TestGet_EnviaBearerYQuery(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "s1", r.URL.Query().Get("viewingSchoolId"))
		_, _ = w.Write([]byte(`[{"id":"c1","nome":"1º Ano"}]`))
	})
	var out []dto.ClassResponse
	err := api.New(srv.URL, staticToken("tok-1")).Get(context.Background(), "/api/turmas", map[string][]string{"viewingSchoolId": {"s1"}}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "1º Ano", out[0].Nome)
}

func TestErrores_SesionExpirada(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"code":"INVALID_TOKEN","message":"token inválido"}`))
		})
		err := api.New(srv.URL, staticToken("tok")).Get(context.Background(), "/api/alunos", nil, nil)
		require.ErrorIs(t, err, api.ErrSessionExpired, "status %d", status)
		assert.Equal(t, "Sessão expirada. Faça login novamente.", err.Error())

		var apiErr *api.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "token inválido", apiErr.ServerMessage())
	}
}

func TestErrores_MensajeDelServidorVerbatim(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"VALIDATION","message":"nome é um campo obrigatório"}`))
	})
	err := api.New(srv.URL, staticToken("tok")).Post(context.Background(), "/api/turmas", map[string]string{}, nil)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Equal(t, "nome é um campo obrigatório", err.Error())
	assert.False(t, api.IsSessionExpired(err))
}

func TestErrores_SinConexion(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := api.New(url, staticToken("tok")).Get(context.Background(), "/api/escolas", nil, nil)
	require.ErrorIs(t, err, api.ErrUnreachable)
}

func TestErrores_ContextoCancelado(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := api.New(srv.URL, staticToken("tok")).Get(ctx, "/api/escolas", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetRaw(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"aluno":{"id":"a1"}}`))
	})
	raw, err := api.New(srv.URL, staticToken("tok")).GetRaw(context.Background(), "/api/alunos/a1/full-data", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aluno":{"id":"a1"}}`, string(raw))
}

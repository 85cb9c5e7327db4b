package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/client/api"
	"github.com/jhoicas/cognitiva-api/internal/client/gate"
	"github.com/jhoicas/cognitiva-api/internal/client/manager"
	"github.com/jhoicas/cognitiva-api/internal/client/school"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"github.com/jhoicas/cognitiva-api/internal/server/servertest"
)

type cliTest struct {
	name     string
	args     []string // sin el nombre del programa
	input    string
	wantErr  error
	wantOut  []string
	skipOut  []string
	password string
}

type harness struct {
	env   *servertest.Env
	store *session.Store
	out   *bytes.Buffer
	cli   *commandLine
}

func setup(t *testing.T) *harness {
	t.Helper()
	env := servertest.New(t)
	store := session.New(session.NewMemoryStorage(), nil)
	store.Restore()
	out := &bytes.Buffer{}
	cli := newCommandLine(store, api.New(env.Server.URL, store), out, bufio.NewReader(strings.NewReader("")))
	return &harness{env: env, store: store, out: out, cli: cli}
}

func withPassword(t *testing.T, pwd string) {
	t.Helper()
	prev := readPasswordFunc
	readPasswordFunc = func() ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = prev })
}

func (h *harness) login(t *testing.T, registro string) {
	t.Helper()
	withPassword(t, servertest.Password)
	require.NoError(t, h.cli.run([]string{"cognitiva", "login", "-registro", registro}))
	h.out.Reset()
}

func (h *harness) exec(t *testing.T, tc cliTest) {
	t.Helper()
	h.out.Reset()
	h.cli.in = bufio.NewReader(strings.NewReader(tc.input))
	err := h.cli.run(append([]string{"cognitiva"}, tc.args...))
	if tc.wantErr != nil {
		assert.ErrorIs(t, err, tc.wantErr)
	} else {
		assert.NoError(t, err)
	}
	for _, s := range tc.wantOut {
		assert.Contains(t, h.out.String(), s)
	}
	for _, s := range tc.skipOut {
		assert.NotContains(t, h.out.String(), s)
	}
}

func Test_commandLine_usage(t *testing.T) {
	h := setup(t)
	tests := []cliTest{
		{name: "sin comando", args: nil, wantErr: errHelp, wantOut: []string{"Uso:"}},
		{name: "comando desconocido", args: []string{"lol"}, wantErr: errHelp},
		{name: "login sin registro", args: []string{"login"}, wantErr: errHelp},
		{name: "list sin recurso", args: []string{"list"}, wantErr: errHelp},
		{name: "whoami sin sesión", args: []string{"whoami"}, wantErr: gate.ErrNotAuthenticated},
		{name: "list sin sesión", args: []string{"list", "alunos"}, wantErr: gate.ErrNotAuthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) { h.exec(t, tc) })
	}
}

func Test_commandLine_login(t *testing.T) {
	tests := []cliTest{
		{name: "senha errada", args: []string{"login", "-registro", servertest.SupervisorRegistro}, password: "errada", wantErr: api.ErrInvalidCredentials},
		{name: "registro desconocido", args: []string{"login", "-registro", "X999"}, password: servertest.Password, wantErr: api.ErrInvalidCredentials},
		{name: "senha vacía", args: []string{"login", "-registro", servertest.SupervisorRegistro}, password: "", wantErr: api.ErrInvalidCredentials},
		{name: "ok", args: []string{"login", "-registro", servertest.SupervisorRegistro}, password: servertest.Password, wantOut: []string{"Bem-vindo, Sara Supervisora (Supervisor)"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := setup(t)
			withPassword(t, tc.password)
			h.exec(t, tc)
			assert.Equal(t, tc.wantErr == nil, h.store.IsAuthenticated())
		})
	}
}

func Test_commandLine_whoamiYLogout(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.ProfessorRegistro)

	h.exec(t, cliTest{args: []string{"whoami"}, wantOut: []string{"Paulo Professor (Professor)", "alunos", "insights"}, skipOut: []string{"escolas", "docentes"}})
	h.exec(t, cliTest{args: []string{"logout"}, wantOut: []string{"Sessão encerrada."}})
	assert.False(t, h.store.IsAuthenticated())
	h.exec(t, cliTest{args: []string{"whoami"}, wantErr: gate.ErrNotAuthenticated})
}

func Test_commandLine_list(t *testing.T) {
	t.Run("professor no ve turmas", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.ProfessorRegistro)
		h.exec(t, cliTest{args: []string{"list", "turmas"}, wantErr: api.ErrForbidden})
	})

	t.Run("supervisor filtra alunos sin acentos", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.SupervisorRegistro)
		h.exec(t, cliTest{args: []string{"list", "alunos", "-q", "joao"}, wantOut: []string{"João Silva", "2024-001"}, skipOut: []string{"Maria Souza"}})
		h.exec(t, cliTest{args: []string{"list", "alunos", "-q", "inexistente"}, wantOut: []string{"Nenhum registro encontrado."}})
	})

	t.Run("supervisor no cambia de escuela", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.SupervisorRegistro)
		h.exec(t, cliTest{args: []string{"list", "turmas", "-escola", servertest.SchoolB}, wantErr: school.ErrSelectionLocked})
	})

	t.Run("admin elige escuela", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.AdminRegistro)
		h.exec(t, cliTest{args: []string{"schools"}, wantOut: []string{"* ", servertest.SchoolA, "Escola A", "Escola B"}})
		h.exec(t, cliTest{args: []string{"list", "turmas"}, wantOut: []string{"1º Ano A"}, skipOut: []string{"1º Ano B"}})
		h.exec(t, cliTest{args: []string{"list", "turmas", "-escola", servertest.SchoolB}, wantOut: []string{"1º Ano B"}, skipOut: []string{"1º Ano A"}})
	})

	t.Run("recurso desconocido", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.AdminRegistro)
		h.out.Reset()
		err := h.cli.run([]string{"cognitiva", "list", "lol"})
		assert.ErrorContains(t, err, "recurso desconhecido")
	})
}

func Test_commandLine_delete(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.SupervisorRegistro)

	tests := []cliTest{
		{name: "rechazado", args: []string{"delete", "materias", servertest.SubjectA}, input: "n\n", wantOut: []string{"Excluir matéria", "Cancelado."}},
		{name: "sigue ahí", args: []string{"list", "materias"}, wantOut: []string{"Matemática"}},
		{name: "confirmado", args: []string{"delete", "materias", servertest.SubjectA}, input: "s\n", wantOut: []string{"Excluído."}},
		{name: "ya no está", args: []string{"list", "materias"}, wantOut: []string{"Nenhum registro encontrado."}},
		{name: "sin pregunta", args: []string{"delete", "alunos", servertest.StudentA, "-y"}, wantOut: []string{"Excluído."}, skipOut: []string{"[s/N]"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) { h.exec(t, tc) })
	}
}

func Test_commandLine_insight(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.ProfessorRegistro)

	h.exec(t, cliTest{args: []string{"insight", servertest.StudentA, "Resuma", "o", "desempenho"}, wantOut: []string{"Gerando insight...", "Análise: "}})
	assert.Equal(t, 1, h.env.LLM.Calls())

	// sin prompt muestra el historial
	h.exec(t, cliTest{args: []string{"insight", servertest.StudentA}, wantOut: []string{"Resuma o desempenho"}})
	h.exec(t, cliTest{args: []string{"insight", servertest.StudentA, "-json"}, wantOut: []string{`"matricula": "2024-001"`}})
	assert.Equal(t, 1, h.env.LLM.Calls())

	h.exec(t, cliTest{args: []string{"insight", servertest.StudentB, "Resuma"}, wantErr: api.ErrSessionExpired})
}

func Test_commandLine_shell(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.AdminRegistro)

	input := strings.Join([]string{
		"use-school " + servertest.SchoolB,
		"list turmas",
		"use-school desconhecida",
		"",
		"exit",
		"list alunos",
	}, "\n")
	h.exec(t, cliTest{args: []string{"shell"}, input: input, wantOut: []string{
		"Escola selecionada: " + servertest.SchoolB,
		"1º Ano B",
		"erro: ",
	}, skipOut: []string{"João Silva", "Maria Souza"}})
	cur, ok := h.cli.schools.Current()
	assert.True(t, ok)
	assert.Equal(t, servertest.SchoolB, cur)
}

func Test_commandLine_shellEOF(t *testing.T) {
	h := setup(t)
	h.exec(t, cliTest{args: []string{"shell"}, input: "whoami", wantOut: []string{"erro: " + gate.ErrNotAuthenticated.Error()}})
}

func Test_commandLine_dashboard(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.AdminRegistro)

	h.exec(t, cliTest{args: []string{"dashboard"}, wantOut: []string{"Docentes: 3", "Alunos: 1 (com condição: 0)"}})
	h.exec(t, cliTest{args: []string{"dashboard", "-escola", servertest.SchoolB}, wantOut: []string{"Docentes: 1"}})

	err := h.cli.run([]string{"cognitiva", "dashboard", "-ano", "1990"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func Test_commandLine_create(t *testing.T) {
	t.Run("supervisor da de alta un aluno", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.SupervisorRegistro)
		h.exec(t, cliTest{args: []string{"create", "alunos", "nome=Pedro Lima", "matricula=2024-003", "turmaId=" + servertest.ClassA, "dataNascimento=2015-04-02"}, wantOut: []string{"Criado: "}})
		h.exec(t, cliTest{args: []string{"list", "alunos", "-q", "pedro"}, wantOut: []string{"Pedro Lima", "2024-003", servertest.ClassA}})
	})

	t.Run("obligatorios antes de enviar", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.SupervisorRegistro)
		err := h.cli.run([]string{"cognitiva", "create", "alunos", "nome=Pedro Lima"})
		var required *manager.RequiredFieldsError
		require.ErrorAs(t, err, &required)
		assert.Equal(t, []string{"matricula"}, required.Fields)
	})

	t.Run("professor queda como dueño de la atividade", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.ProfessorRegistro)
		h.exec(t, cliTest{
			args:    []string{"create", "atividades", "titulo=Prova 1", "turmaId=" + servertest.ClassA, "materiaId=" + servertest.SubjectA, "professorId=" + servertest.AdminID},
			wantOut: []string{
				"Campos bloqueados: professorId",
				"professorId ignorado",
				"turmas:", "1º Ano A",
				"materias:", "Matemática",
				"Criado: ",
			},
			skipOut: []string{"1º Ano B", "Português"},
		})
		list, err := h.env.Store.Activities().List(context.Background(), repository.ActivityFilter{SchoolID: servertest.SchoolA})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, servertest.ProfessorID, list[0].ProfessorID)
		assert.Equal(t, "Prova 1", list[0].Title)
	})

	t.Run("campo mal formado", func(t *testing.T) {
		h := setup(t)
		h.login(t, servertest.SupervisorRegistro)
		err := h.cli.run([]string{"cognitiva", "create", "turmas", "nome=9º Ano", "anoLetivo=dois mil"})
		assert.ErrorContains(t, err, "anoLetivo deve ser um número")
	})
}

func Test_commandLine_edit(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.SupervisorRegistro)

	h.exec(t, cliTest{args: []string{"edit", "turmas", servertest.ClassA, "nome=1º Ano C"}, wantOut: []string{"Atualizado."}})
	h.exec(t, cliTest{args: []string{"list", "turmas"}, wantOut: []string{"1º Ano C", "2024", "manha"}, skipOut: []string{"1º Ano A"}})

	h.exec(t, cliTest{args: []string{"edit", "turmas", "00000000-0000-0000-0000-000000000999", "nome=X"}, wantErr: manager.ErrNotFound})

	err := h.cli.run([]string{"cognitiva", "edit", "turmas", servertest.ClassA})
	assert.ErrorContains(t, err, "nada para alterar")
}

func Test_parseForm(t *testing.T) {
	form, err := parseForm([]string{"nome=Ana = Maria", "anoLetivo=2025", "dataEntrega=2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "Ana = Maria", form["nome"])
	assert.Equal(t, 2025, form["anoLetivo"])
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), form["dataEntrega"])

	_, err = parseForm([]string{"sem-igual"})
	assert.ErrorContains(t, err, "use campo=valor")
	_, err = parseForm([]string{"dataEntrega=10/03/2025"})
	assert.ErrorContains(t, err, "AAAA-MM-DD")
}

func Test_commandLine_shellRecargaAlCambiarDeEscuela(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.AdminRegistro)

	input := strings.Join([]string{
		"list docentes",
		"use-school " + servertest.SchoolB,
		"exit",
	}, "\n")
	h.exec(t, cliTest{args: []string{"shell"}, input: input,
		wantOut: []string{"Ana Admin", "(docentes atualizado: 1 registro(s))"},
		skipOut: []string{"atualizado: 3"},
	})
	assert.Nil(t, h.cli.views, "los managers se desmontan al salir")
}

func Test_commandLine_shellSigueLaSesion(t *testing.T) {
	h := setup(t)
	h.login(t, servertest.AdminRegistro)
	withPassword(t, servertest.Password)

	input := strings.Join([]string{
		"list docentes",
		"logout",
		"login -registro " + servertest.ProfessorBRegistro,
		"schools",
		"exit",
	}, "\n")
	h.exec(t, cliTest{args: []string{"shell"}, input: input,
		wantOut: []string{"Sessão encerrada.", "Bem-vindo, Bia Professora", "(docentes atualizado: 1 registro(s))", "* " + servertest.SchoolB},
	})
	cur, ok := h.cli.schools.Current()
	require.True(t, ok)
	assert.Equal(t, servertest.SchoolB, cur)
	assert.True(t, h.cli.schools.Locked())
}

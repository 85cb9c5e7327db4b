// Package servertest levanta la API completa sobre el store en memoria para tests.
package servertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cognitiva-api/internal/application/auth"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/cache"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
	"github.com/jhoicas/cognitiva-api/internal/server"
	"github.com/jhoicas/cognitiva-api/pkg/jwt"
)

// Datos sembrados: dos escuelas con una turma, una materia y un alumno cada una.
const (
	SchoolA      = "00000000-0000-0000-0000-00000000000a"
	SchoolB      = "00000000-0000-0000-0000-00000000000b"
	AdminID      = "00000000-0000-0000-0000-000000000001"
	SupervisorID = "00000000-0000-0000-0000-000000000002"
	ProfessorID  = "00000000-0000-0000-0000-000000000003"
	ProfessorBID = "00000000-0000-0000-0000-000000000004"
	ClassA       = "00000000-0000-0000-0000-0000000000c1"
	ClassB       = "00000000-0000-0000-0000-0000000000c2"
	SubjectA     = "00000000-0000-0000-0000-0000000000d1"
	SubjectB     = "00000000-0000-0000-0000-0000000000d2"
	StudentA     = "00000000-0000-0000-0000-0000000000e1"
	StudentB     = "00000000-0000-0000-0000-0000000000e2"
	ConditionTEA = "00000000-0000-0000-0000-0000000000f1"

	Password = "senha123"
	Secret   = "servertest-secret"
)

// Registros de login de los docentes sembrados.
const (
	AdminRegistro      = "A001"
	SupervisorRegistro = "S001"
	ProfessorRegistro  = "T001"
	ProfessorBRegistro = "T002"
)

// Env API en memoria lista para recibir peticiones.
type Env struct {
	Store  *memory.Store
	App    *fiber.App
	Server *httptest.Server
	LLM    *FakeLLM
}

// New siembra el store, arma la app y la expone en un httptest.Server que se cierra al terminar el test.
func New(t *testing.T) *Env {
	t.Helper()
	st := memory.NewStore()
	Seed(t, st)

	llm := &FakeLLM{}
	app := server.New(server.MemoryRepos(st), server.Options{
		AppName: "cognitiva-test",
		JWT:     auth.JWTConfig{Secret: Secret, ExpMinutes: 60, Issuer: "cognitiva-test"},
		LLM:     llm,
		Lock:    cache.NewMemoryLock(cache.DefaultLockTTL),
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return &Env{Store: st, App: app, Server: srv, LLM: llm}
}

// Seed carga las escuelas, docentes, turmas, materias, alumnos y la condición TEA.
func Seed(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: SchoolA, Name: "Escola A", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: SchoolB, Name: "Escola B", CreatedAt: now, UpdatedAt: now}))
	for _, tc := range []entity.Teacher{
		{ID: AdminID, SchoolID: SchoolA, Name: "Ana Admin", Registro: AdminRegistro, Role: domain.RoleAdministrador},
		{ID: SupervisorID, SchoolID: SchoolA, Name: "Sara Supervisora", Registro: SupervisorRegistro, Role: domain.RoleSupervisor},
		{ID: ProfessorID, SchoolID: SchoolA, Name: "Paulo Professor", Registro: ProfessorRegistro, Role: domain.RoleProfessor},
		{ID: ProfessorBID, SchoolID: SchoolB, Name: "Bia Professora", Registro: ProfessorBRegistro, Role: domain.RoleProfessor},
	} {
		tc.PasswordHash = string(hash)
		tc.Status = entity.TeacherStatusActive
		tc.CreatedAt, tc.UpdatedAt = now, now
		require.NoError(t, st.Teachers().Create(ctx, &tc))
	}
	require.NoError(t, st.Classes().Create(ctx, &entity.Class{ID: ClassA, SchoolID: SchoolA, Name: "1º Ano A", SchoolYear: 2024, Shift: entity.ShiftMorning, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, st.Classes().Create(ctx, &entity.Class{ID: ClassB, SchoolID: SchoolB, Name: "1º Ano B", SchoolYear: 2024, Shift: entity.ShiftAfternoon, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, st.Subjects().Create(ctx, &entity.Subject{ID: SubjectA, SchoolID: SchoolA, Name: "Matemática", Workload: 80, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, st.Subjects().Create(ctx, &entity.Subject{ID: SubjectB, SchoolID: SchoolB, Name: "Português", Workload: 80, CreatedAt: now, UpdatedAt: now}))
	ca, cb := ClassA, ClassB
	require.NoError(t, st.Students().Create(ctx, &entity.Student{ID: StudentA, SchoolID: SchoolA, ClassID: &ca, Name: "João Silva", Enrollment: "2024-001", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, st.Students().Create(ctx, &entity.Student{ID: StudentB, SchoolID: SchoolB, ClassID: &cb, Name: "Maria Souza", Enrollment: "2024-002", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, st.Conditions().Create(ctx, &entity.MedicalCondition{ID: ConditionTEA, Name: "TEA", CID: "F84.0", CreatedAt: now}))
}

// Token firma un JWT para un docente sembrado.
func (e *Env) Token(t *testing.T, teacherID string) string {
	t.Helper()
	teacher, err := e.Store.Teachers().GetByID(context.Background(), teacherID)
	require.NoError(t, err)
	require.NotNil(t, teacher, "docente %s no sembrado", teacherID)
	tok, err := jwt.Generate(Secret, jwt.Identity{
		UserID:   teacher.ID,
		SchoolID: teacher.SchoolID,
		Role:     teacher.Role.String(),
		Name:     teacher.Name,
	}, "cognitiva-test", 60)
	require.NoError(t, err)
	return tok
}

// Do ejecuta una petición contra la app (sin red). body se serializa a JSON si no es nil.
func (e *Env) Do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Decode lee el cuerpo JSON de la respuesta en out.
func Decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// FakeLLM proveedor de IA falso.
type FakeLLM struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
	err   error
}

func (f *FakeLLM) Name() string { return "fake" }

func (f *FakeLLM) GenerateInsight(ctx context.Context, instruction string, _ []byte) (string, error) {
	f.mu.Lock()
	f.calls++
	gate, err := f.gate, f.err
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return "Análise: " + instruction, nil
}

// Calls número de llamadas recibidas.
func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// SetErr hace que las próximas llamadas fallen con err (nil para volver a responder).
func (f *FakeLLM) SetErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Block hace que las próximas llamadas esperen; devuelve la función que las libera.
func (f *FakeLLM) Block() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

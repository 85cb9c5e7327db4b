package insight_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/insight"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/cache"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
)

const (
	schoolID  = "00000000-0000-0000-0000-00000000000a"
	studentID = "00000000-0000-0000-0000-0000000000e1"
)

var professor = domain.Actor{UserID: "00000000-0000-0000-0000-000000000003", SchoolID: schoolID, Role: domain.RoleProfessor}

// fakeLLM registra las llamadas y puede bloquearse hasta que el test lo libere.
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	record  []byte
	release chan struct{}
	started chan struct{}
	err     error
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) GenerateInsight(ctx context.Context, instruction string, record []byte) (string, error) {
	f.mu.Lock()
	f.calls++
	f.record = record
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return "Narrativa: " + instruction, nil
}

func setup(t *testing.T, llm *fakeLLM) (*insight.UseCase, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: schoolID, Name: "Escola A"}))
	require.NoError(t, st.Students().Create(ctx, &entity.Student{ID: studentID, SchoolID: schoolID, Name: "João", Enrollment: "M-1"}))
	students := usecase.NewStudentUseCase(st.Students(), usecase.StudentRecordRepos{
		Schools:      st.Schools(),
		Classes:      st.Classes(),
		Conditions:   st.Conditions(),
		Grades:       st.Grades(),
		Evaluations:  st.Evaluations(),
		Observations: st.Observations(),
		Subjects:     st.Subjects(),
	})
	return insight.NewUseCase(students, st.Insights(), llm, cache.NewMemoryLock(time.Minute), nil), st
}

func TestGenerate_PersisteInsight(t *testing.T) {
	llm := &fakeLLM{}
	uc, _ := setup(t, llm)
	ctx := context.Background()

	out, err := uc.Generate(ctx, professor, studentID, dto.GenerateInsightRequest{Prompt: "Resuma o bimestre"})
	require.NoError(t, err)
	assert.Equal(t, "Narrativa: Resuma o bimestre", out.Conteudo)
	assert.Equal(t, "fake", out.Provedor)
	assert.Equal(t, professor.UserID, out.AutorID)
	assert.Contains(t, string(llm.record), "João", "el LLM recibe la ficha del alumno")

	history, err := uc.History(ctx, professor, studentID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, out.ID, history[0].ID)
}

func TestGenerate_ConcurrenteMismoAlumnoRechazado(t *testing.T) {
	llm := &fakeLLM{release: make(chan struct{}), started: make(chan struct{})}
	uc, _ := setup(t, llm)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := uc.Generate(ctx, professor, studentID, dto.GenerateInsightRequest{Prompt: "primeiro"})
		done <- err
	}()
	<-llm.started

	_, err := uc.Generate(ctx, professor, studentID, dto.GenerateInsightRequest{Prompt: "segundo"})
	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)

	close(llm.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, llm.calls, "solo una llamada al proveedor")
}

func TestGenerate_ErrorDelProveedorLiberaLock(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota")}
	uc, st := setup(t, llm)
	ctx := context.Background()

	_, err := uc.Generate(ctx, professor, studentID, dto.GenerateInsightRequest{Prompt: "x"})
	require.Error(t, err)

	llm.err = nil
	_, err = uc.Generate(ctx, professor, studentID, dto.GenerateInsightRequest{Prompt: "x"})
	require.NoError(t, err, "tras un fallo se puede reintentar")

	list, err := st.Insights().ListByStudent(ctx, studentID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerate_AlumnoDeOtraEscuela(t *testing.T) {
	llm := &fakeLLM{}
	uc, _ := setup(t, llm)
	other := domain.Actor{UserID: "x", SchoolID: "00000000-0000-0000-0000-00000000000b", Role: domain.RoleProfessor}
	_, err := uc.Generate(context.Background(), other, studentID, dto.GenerateInsightRequest{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, llm.calls)
}

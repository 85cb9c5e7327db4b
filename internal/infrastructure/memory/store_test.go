package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
	"github.com/jhoicas/cognitiva-api/internal/server/servertest"
)

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.NewStore()
	servertest.Seed(t, st)
	return st
}

func TestSchoolDelete_ConDependientesEsConflicto(t *testing.T) {
	st := seeded(t)
	err := st.Schools().Delete(context.Background(), servertest.SchoolA)
	assert.ErrorIs(t, err, domain.ErrConflict)

	school, err := st.Schools().GetByID(context.Background(), servertest.SchoolA)
	require.NoError(t, err)
	assert.NotNil(t, school)
}

func TestSchoolDelete_Vacia(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: "s", Name: "Vazia"}))
	require.NoError(t, st.Schools().Delete(ctx, "s"))
	assert.ErrorIs(t, st.Schools().Delete(ctx, "s"), domain.ErrNotFound)
}

func TestClassDelete_DesvinculaAlumnos(t *testing.T) {
	st := seeded(t)
	ctx := context.Background()
	require.NoError(t, st.Classes().Delete(ctx, servertest.ClassA))

	student, err := st.Students().GetByID(ctx, servertest.StudentA)
	require.NoError(t, err)
	assert.Nil(t, student.ClassID)
}

func TestStudentDelete_BorraSuFicha(t *testing.T) {
	st := seeded(t)
	ctx := context.Background()
	require.NoError(t, st.Conditions().Assign(ctx, &entity.StudentCondition{StudentID: servertest.StudentA, ConditionID: servertest.ConditionTEA}))
	require.NoError(t, st.Observations().Create(ctx, &entity.Observation{ID: "o1", StudentID: servertest.StudentA, ProfessorID: servertest.ProfessorID, Text: "ok"}))

	require.NoError(t, st.Students().Delete(ctx, servertest.StudentA))
	conds, err := st.Conditions().ListByStudent(ctx, servertest.StudentA)
	require.NoError(t, err)
	assert.Empty(t, conds)
	obs, err := st.Observations().ListByStudent(ctx, servertest.StudentA)
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestTeacher_RegistroUnico(t *testing.T) {
	st := seeded(t)
	ctx := context.Background()
	err := st.Teachers().Create(ctx, &entity.Teacher{ID: "x", SchoolID: servertest.SchoolA, Registro: servertest.AdminRegistro, Role: domain.RoleProfessor})
	assert.ErrorIs(t, err, domain.ErrRegistroAlreadyUsed)

	prof, err := st.Teachers().GetByID(ctx, servertest.ProfessorID)
	require.NoError(t, err)
	prof.Registro = servertest.SupervisorRegistro
	assert.ErrorIs(t, st.Teachers().Update(ctx, prof), domain.ErrRegistroAlreadyUsed)
}

func TestStudent_MatriculaUnicaPorEscuela(t *testing.T) {
	st := seeded(t)
	ctx := context.Background()
	dup := &entity.Student{ID: "n", SchoolID: servertest.SchoolA, Name: "Outro", Enrollment: "2024-001"}
	assert.ErrorIs(t, st.Students().Create(ctx, dup), domain.ErrDuplicate)

	// la misma matrícula en otra escuela es válida
	dup.SchoolID = servertest.SchoolB
	dup.Enrollment = "2024-001"
	assert.NoError(t, st.Students().Create(ctx, dup))
}

func TestRunGrades_TodoONada(t *testing.T) {
	st := seeded(t)
	ctx := context.Background()
	grade := func(bim int) *entity.BimonthlyGrade {
		return &entity.BimonthlyGrade{ID: "g", StudentID: servertest.StudentA, SubjectID: servertest.SubjectA, SchoolYear: 2024, Bimester: bim, Grade: decimal.NewFromInt(7)}
	}
	boom := errors.New("falla a mitad")
	err := st.RunGrades(ctx, func(repo repository.GradeRepository) error {
		require.NoError(t, repo.Upsert(ctx, grade(1)))
		return boom
	})
	require.ErrorIs(t, err, boom)
	list, _ := st.Grades().ListByStudent(ctx, servertest.StudentA)
	assert.Empty(t, list)

	require.NoError(t, st.RunGrades(ctx, func(repo repository.GradeRepository) error {
		if err := repo.Upsert(ctx, grade(1)); err != nil {
			return err
		}
		return repo.Upsert(ctx, grade(2))
	}))
	list, _ = st.Grades().ListByStudent(ctx, servertest.StudentA)
	assert.Len(t, list, 2)
}

func TestConditionAssign_ReasignarActualizaNota(t *testing.T) {
	st := seeded(t)
	ctx := context.Background()
	a := &entity.StudentCondition{StudentID: servertest.StudentA, ConditionID: servertest.ConditionTEA, Notes: "primeira"}
	require.NoError(t, st.Conditions().Assign(ctx, a))
	a.Notes = "revisada"
	require.NoError(t, st.Conditions().Assign(ctx, a))

	list, err := st.Conditions().ListByStudent(ctx, servertest.StudentA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "revisada", list[0].Notes)
}

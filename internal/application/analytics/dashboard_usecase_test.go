package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
)

const (
	schoolA  = "00000000-0000-0000-0000-00000000000a"
	schoolB  = "00000000-0000-0000-0000-00000000000b"
	subjectM = "00000000-0000-0000-0000-0000000000d1"
	subjectP = "00000000-0000-0000-0000-0000000000d2"
	subjectB = "00000000-0000-0000-0000-0000000000d3"
	student1 = "00000000-0000-0000-0000-0000000000e1"
	student2 = "00000000-0000-0000-0000-0000000000e2"
	studentB = "00000000-0000-0000-0000-0000000000e3"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func grade(studentID, subjectID string, year, bim int, nota string) *entity.BimonthlyGrade {
	return &entity.BimonthlyGrade{
		ID: studentID + subjectID + nota, StudentID: studentID, SubjectID: subjectID,
		SchoolYear: year, Bimester: bim, Grade: decimal.RequireFromString(nota),
	}
}

func setup(t *testing.T) *DashboardUseCase {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: schoolA, Name: "Escola A"}))
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: schoolB, Name: "Escola B"}))
	require.NoError(t, st.Teachers().Create(ctx, &entity.Teacher{ID: "t1", SchoolID: schoolA, Registro: "T1", Role: domain.RoleProfessor}))
	require.NoError(t, st.Teachers().Create(ctx, &entity.Teacher{ID: "t2", SchoolID: schoolA, Registro: "T2", Role: domain.RoleSupervisor}))
	require.NoError(t, st.Teachers().Create(ctx, &entity.Teacher{ID: "t3", SchoolID: schoolB, Registro: "T3", Role: domain.RoleProfessor}))
	require.NoError(t, st.Classes().Create(ctx, &entity.Class{ID: "c1", SchoolID: schoolA, Name: "1A", SchoolYear: 2024, Shift: entity.ShiftMorning}))
	for _, s := range []entity.Subject{
		{ID: subjectM, SchoolID: schoolA, Name: "Matemática"},
		{ID: subjectP, SchoolID: schoolA, Name: "Português"},
		{ID: subjectB, SchoolID: schoolB, Name: "Ciências"},
	} {
		require.NoError(t, st.Subjects().Create(ctx, &s))
	}
	for _, s := range []entity.Student{
		{ID: student1, SchoolID: schoolA, Name: "João", Enrollment: "1"},
		{ID: student2, SchoolID: schoolA, Name: "Ana", Enrollment: "2"},
		{ID: studentB, SchoolID: schoolB, Name: "Maria", Enrollment: "3"},
	} {
		require.NoError(t, st.Students().Create(ctx, &s))
	}
	require.NoError(t, st.Conditions().Create(ctx, &entity.MedicalCondition{ID: "tea", Name: "TEA"}))
	require.NoError(t, st.Conditions().Create(ctx, &entity.MedicalCondition{ID: "tdah", Name: "TDAH"}))
	for _, a := range []entity.StudentCondition{
		{StudentID: student1, ConditionID: "tea"},
		{StudentID: student1, ConditionID: "tdah"},
		{StudentID: studentB, ConditionID: "tea"},
	} {
		require.NoError(t, st.Conditions().Assign(ctx, &a))
	}
	for _, g := range []*entity.BimonthlyGrade{
		grade(student1, subjectM, 2024, 1, "8"),
		grade(student2, subjectM, 2024, 1, "7"),
		grade(student1, subjectP, 2024, 1, "9.5"),
		grade(student1, subjectP, 2023, 4, "2"),  // otro año
		grade(studentB, subjectB, 2024, 1, "10"), // otra escuela
	} {
		require.NoError(t, st.Grades().Upsert(ctx, g))
	}
	for _, in := range []entity.Insight{
		{ID: "i1", StudentID: student1, CreatedAt: fixedNow.Add(-24 * time.Hour)},
		{ID: "i2", StudentID: student2, CreatedAt: fixedNow.Add(-40 * 24 * time.Hour)},
		{ID: "i3", StudentID: studentB, CreatedAt: fixedNow},
	} {
		require.NoError(t, st.Insights().Create(ctx, &in))
	}

	uc := NewDashboardUseCase(st.Analytics(), st.Schools())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestGetSummary(t *testing.T) {
	uc := setup(t)
	supervisor := domain.Actor{UserID: "t2", SchoolID: schoolA, Role: domain.RoleSupervisor}

	out, err := uc.GetSummary(context.Background(), supervisor, "", 0)
	require.NoError(t, err)
	assert.Equal(t, schoolA, out.EscolaID)
	assert.Equal(t, 2024, out.AnoLetivo)
	assert.Equal(t, 2, out.Docentes)
	assert.Equal(t, 1, out.Turmas)
	assert.Equal(t, 2, out.Materias)
	assert.Equal(t, 2, out.Alunos)
	assert.Equal(t, 1, out.AlunosComCondicao)
	assert.Equal(t, 1, out.InsightsRecentes)

	require.Len(t, out.MediasPorMateria, 2)
	assert.Equal(t, "Português", out.MediasPorMateria[0].Nome)
	assert.True(t, decimal.RequireFromString("9.5").Equal(out.MediasPorMateria[0].Media))
	assert.Equal(t, 1, out.MediasPorMateria[0].Notas)
	assert.Equal(t, subjectM, out.MediasPorMateria[1].MateriaID)
	assert.True(t, decimal.RequireFromString("7.5").Equal(out.MediasPorMateria[1].Media))
	assert.Equal(t, 2, out.MediasPorMateria[1].Notas)
}

func TestGetSummary_AnoAnterior(t *testing.T) {
	uc := setup(t)
	admin := domain.Actor{UserID: "adm", SchoolID: schoolA, Role: domain.RoleAdministrador}

	out, err := uc.GetSummary(context.Background(), admin, schoolA, 2023)
	require.NoError(t, err)
	require.Len(t, out.MediasPorMateria, 1)
	assert.True(t, decimal.NewFromInt(2).Equal(out.MediasPorMateria[0].Media))

	out, err = uc.GetSummary(context.Background(), admin, schoolA, 2019)
	require.NoError(t, err)
	assert.Empty(t, out.MediasPorMateria)
	assert.NotNil(t, out.MediasPorMateria)
}

func TestGetSummary_Alcance(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()
	professor := domain.Actor{UserID: "t1", SchoolID: schoolA, Role: domain.RoleProfessor}
	admin := domain.Actor{UserID: "adm", SchoolID: schoolA, Role: domain.RoleAdministrador}

	_, err := uc.GetSummary(ctx, professor, schoolB, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.GetSummary(ctx, admin, schoolB, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Alunos)
	assert.Equal(t, 1, out.AlunosComCondicao)
	assert.Equal(t, 1, out.InsightsRecentes)

	_, err = uc.GetSummary(ctx, admin, "00000000-0000-0000-0000-0000000000ff", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetSummary(ctx, admin, schoolA, 1999)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

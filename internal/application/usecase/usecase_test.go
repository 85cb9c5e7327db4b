package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
)

const (
	schoolA    = "00000000-0000-0000-0000-00000000000a"
	schoolB    = "00000000-0000-0000-0000-00000000000b"
	adminID    = "00000000-0000-0000-0000-000000000001"
	superID    = "00000000-0000-0000-0000-000000000002"
	profID     = "00000000-0000-0000-0000-000000000003"
	otherProf  = "00000000-0000-0000-0000-000000000004"
	classA     = "00000000-0000-0000-0000-0000000000c1"
	classB     = "00000000-0000-0000-0000-0000000000c2"
	subjectA   = "00000000-0000-0000-0000-0000000000d1"
	subjectB   = "00000000-0000-0000-0000-0000000000d2"
	studentA   = "00000000-0000-0000-0000-0000000000e1"
	studentB   = "00000000-0000-0000-0000-0000000000e2"
	conditionX = "00000000-0000-0000-0000-0000000000f1"
)

var (
	admin      = domain.Actor{UserID: adminID, SchoolID: schoolA, Role: domain.RoleAdministrador}
	supervisor = domain.Actor{UserID: superID, SchoolID: schoolA, Role: domain.RoleSupervisor}
	professor  = domain.Actor{UserID: profID, SchoolID: schoolA, Role: domain.RoleProfessor}
)

// seed carga dos escuelas con una turma, una materia y un alumno cada una.
func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	now := time.Now()
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: schoolA, Name: "Escola A", CreatedAt: now}))
	require.NoError(t, st.Schools().Create(ctx, &entity.School{ID: schoolB, Name: "Escola B", CreatedAt: now}))
	for _, tc := range []entity.Teacher{
		{ID: adminID, SchoolID: schoolA, Name: "Admin", Registro: "A001", Role: domain.RoleAdministrador, Status: entity.TeacherStatusActive},
		{ID: superID, SchoolID: schoolA, Name: "Super", Registro: "S001", Role: domain.RoleSupervisor, Status: entity.TeacherStatusActive},
		{ID: profID, SchoolID: schoolA, Name: "Prof", Registro: "T001", Role: domain.RoleProfessor, Status: entity.TeacherStatusActive},
		{ID: otherProf, SchoolID: schoolA, Name: "Outra Prof", Registro: "T002", Role: domain.RoleProfessor, Status: entity.TeacherStatusActive},
	} {
		require.NoError(t, st.Teachers().Create(ctx, &tc))
	}
	require.NoError(t, st.Classes().Create(ctx, &entity.Class{ID: classA, SchoolID: schoolA, Name: "1A", SchoolYear: 2024, Shift: entity.ShiftMorning}))
	require.NoError(t, st.Classes().Create(ctx, &entity.Class{ID: classB, SchoolID: schoolB, Name: "1B", SchoolYear: 2024, Shift: entity.ShiftAfternoon}))
	require.NoError(t, st.Subjects().Create(ctx, &entity.Subject{ID: subjectA, SchoolID: schoolA, Name: "Matemática"}))
	require.NoError(t, st.Subjects().Create(ctx, &entity.Subject{ID: subjectB, SchoolID: schoolB, Name: "Português"}))
	ca, cb := classA, classB
	require.NoError(t, st.Students().Create(ctx, &entity.Student{ID: studentA, SchoolID: schoolA, ClassID: &ca, Name: "João", Enrollment: "M-1"}))
	require.NoError(t, st.Students().Create(ctx, &entity.Student{ID: studentB, SchoolID: schoolB, ClassID: &cb, Name: "Maria", Enrollment: "M-2"}))
	require.NoError(t, st.Conditions().Create(ctx, &entity.MedicalCondition{ID: conditionX, Name: "TEA", CID: "F84.0"}))
	return st
}

func recordRepos(st *memory.Store) usecase.StudentRecordRepos {
	return usecase.StudentRecordRepos{
		Schools:      st.Schools(),
		Classes:      st.Classes(),
		Conditions:   st.Conditions(),
		Grades:       st.Grades(),
		Evaluations:  st.Evaluations(),
		Observations: st.Observations(),
		Subjects:     st.Subjects(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escuelas
// ──────────────────────────────────────────────────────────────────────────────

func TestSchool_ListAdminVeTodas(t *testing.T) {
	uc := usecase.NewSchoolUseCase(seed(t).Schools())
	list, err := uc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSchool_ListProfessorVeSoloLaSuya(t *testing.T) {
	uc := usecase.NewSchoolUseCase(seed(t).Schools())
	list, err := uc.List(context.Background(), professor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, schoolA, list[0].ID)
}

func TestSchool_CreateSoloAdmin(t *testing.T) {
	uc := usecase.NewSchoolUseCase(seed(t).Schools())
	_, err := uc.Create(context.Background(), supervisor, dto.SchoolRequest{Nome: "Nova"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Create(context.Background(), admin, dto.SchoolRequest{Nome: "Nova"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Docentes
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignableRoles_PorCargo(t *testing.T) {
	assert.Equal(t, domain.AllRoles(), usecase.AssignableRoles(admin))
	assert.Equal(t, []domain.Role{domain.RoleSupervisor, domain.RoleProfessor}, usecase.AssignableRoles(supervisor))
	assert.Empty(t, usecase.AssignableRoles(professor))
}

func TestTeacher_SupervisorNoPuedeCrearAdministrador(t *testing.T) {
	st := seed(t)
	uc := usecase.NewTeacherUseCase(st.Teachers(), st.Schools())
	_, err := uc.Create(context.Background(), supervisor, dto.TeacherRequest{
		Nome: "Nuevo", Registro: "X1", Senha: "secreta", Cargo: "Administrador",
	}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTeacher_RegistroDuplicado(t *testing.T) {
	st := seed(t)
	uc := usecase.NewTeacherUseCase(st.Teachers(), st.Schools())
	_, err := uc.Create(context.Background(), admin, dto.TeacherRequest{
		Nome: "Repetido", Registro: "T001", Senha: "secreta", Cargo: "Professor", EscolaID: schoolA,
	}, "")
	assert.ErrorIs(t, err, domain.ErrRegistroAlreadyUsed)
}

func TestTeacher_CargoDesconocido(t *testing.T) {
	st := seed(t)
	uc := usecase.NewTeacherUseCase(st.Teachers(), st.Schools())
	_, err := uc.Create(context.Background(), admin, dto.TeacherRequest{
		Nome: "X", Registro: "X9", Senha: "secreta", Cargo: "Diretor", EscolaID: schoolA,
	}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestTeacher_SupervisorCreaEnSuEscuelaAunqueIndiqueOtra(t *testing.T) {
	st := seed(t)
	uc := usecase.NewTeacherUseCase(st.Teachers(), st.Schools())
	out, err := uc.Create(context.Background(), supervisor, dto.TeacherRequest{
		Nome: "Nova Prof", Registro: "T100", Senha: "secreta", Cargo: "professor", EscolaID: schoolB,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, schoolA, out.EscolaID)
	assert.Equal(t, "Professor", out.Cargo)

	stored, err := st.Teachers().GetByRegistro(context.Background(), "T100")
	require.NoError(t, err)
	assert.NotEqual(t, "secreta", stored.PasswordHash, "la senha nunca se guarda en claro")
}

func TestTeacher_NadiePuedeEliminarseASiMismo(t *testing.T) {
	st := seed(t)
	uc := usecase.NewTeacherUseCase(st.Teachers(), st.Schools())
	assert.ErrorIs(t, uc.Delete(context.Background(), admin, adminID), domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Turmas y alumnos: alcance por escuela
// ──────────────────────────────────────────────────────────────────────────────

func TestClass_CreateAdminUsaViewingSchool(t *testing.T) {
	st := seed(t)
	uc := usecase.NewClassUseCase(st.Classes())
	out, err := uc.Create(context.Background(), admin, dto.ClassRequest{Nome: "2B", AnoLetivo: 2024, Turno: "tarde"}, schoolB)
	require.NoError(t, err)
	assert.Equal(t, schoolB, out.EscolaID)

	list, err := uc.List(context.Background(), schoolB)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClass_CreateAdminSinEscuela(t *testing.T) {
	st := seed(t)
	uc := usecase.NewClassUseCase(st.Classes())
	admin := domain.Actor{UserID: adminID, Role: domain.RoleAdministrador}
	_, err := uc.Create(context.Background(), admin, dto.ClassRequest{Nome: "2B", AnoLetivo: 2024, Turno: "tarde"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClass_SupervisorNoEditaOtraEscuela(t *testing.T) {
	st := seed(t)
	uc := usecase.NewClassUseCase(st.Classes())
	_, err := uc.Update(context.Background(), supervisor, classB, dto.ClassRequest{Nome: "X", AnoLetivo: 2024, Turno: "manha"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStudent_TurmaDeOtraEscuelaRechazada(t *testing.T) {
	st := seed(t)
	uc := usecase.NewStudentUseCase(st.Students(), recordRepos(st))
	cb := classB
	_, err := uc.Create(context.Background(), supervisor, dto.StudentRequest{Nome: "Ana", Matricula: "M-9", TurmaID: &cb}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStudent_ProfessorNoVeAlumnoDeOtraEscuela(t *testing.T) {
	st := seed(t)
	uc := usecase.NewStudentUseCase(st.Students(), recordRepos(st))
	_, err := uc.GetByID(context.Background(), professor, studentB)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(context.Background(), professor, "00000000-0000-0000-0000-999999999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStudent_FullDataConsolida(t *testing.T) {
	st := seed(t)
	ctx := context.Background()
	conds := usecase.NewConditionUseCase(st.Conditions(), st.Students())
	_, err := conds.Assign(ctx, supervisor, dto.AssignConditionRequest{AlunoID: studentA, CondicaoID: conditionX, Observacao: "laudo 2023"})
	require.NoError(t, err)
	obs := usecase.NewObservationUseCase(st.Observations(), st.Students())
	_, err = obs.Create(ctx, professor, dto.ObservationRequest{AlunoID: studentA, Texto: "Participou bem"})
	require.NoError(t, err)

	uc := usecase.NewStudentUseCase(st.Students(), recordRepos(st))
	full, err := uc.FullData(ctx, professor, studentA)
	require.NoError(t, err)
	assert.Equal(t, "João", full.Aluno.Nome)
	require.NotNil(t, full.Escola)
	assert.Equal(t, "Escola A", full.Escola.Nome)
	require.NotNil(t, full.Turma)
	assert.Equal(t, "1A", full.Turma.Nome)
	require.Len(t, full.Condicoes, 1)
	assert.Equal(t, "TEA", full.Condicoes[0].Nome)
	require.Len(t, full.Observacoes, 1)
	assert.Equal(t, profID, full.Observacoes[0].ProfessorID)
	assert.NotNil(t, full.Notas)
	assert.NotNil(t, full.Avaliacoes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actividades: el Professor queda como dueño
// ──────────────────────────────────────────────────────────────────────────────

func newActivityUC(st *memory.Store) *usecase.ActivityUseCase {
	return usecase.NewActivityUseCase(st.Activities(), st.Classes(), st.Subjects(), st.Teachers())
}

func TestActivity_ProfessorForzadoASiMismo(t *testing.T) {
	st := seed(t)
	uc := newActivityUC(st)
	out, err := uc.Create(context.Background(), professor, dto.ActivityRequest{
		Titulo: "Leitura", TurmaID: classA, MateriaID: subjectA, ProfessorID: otherProf,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, profID, out.ProfessorID, "professorId enviado debe ignorarse")
}

func TestActivity_SupervisorAsignaOtroDocente(t *testing.T) {
	st := seed(t)
	uc := newActivityUC(st)
	out, err := uc.Create(context.Background(), supervisor, dto.ActivityRequest{
		Titulo: "Leitura", TurmaID: classA, MateriaID: subjectA, ProfessorID: otherProf,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, otherProf, out.ProfessorID)
}

func TestActivity_ProfessorNoEditaAjena(t *testing.T) {
	st := seed(t)
	uc := newActivityUC(st)
	ctx := context.Background()
	out, err := uc.Create(ctx, supervisor, dto.ActivityRequest{
		Titulo: "Leitura", TurmaID: classA, MateriaID: subjectA, ProfessorID: otherProf,
	}, "")
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, professor, out.ID), domain.ErrForbidden)

	list, err := uc.List(ctx, professor, schoolA, "")
	require.NoError(t, err)
	assert.Empty(t, list, "un Professor solo lista sus actividades")
}

func TestActivity_MateriaDeOtraEscuela(t *testing.T) {
	st := seed(t)
	_, err := newActivityUC(st).Create(context.Background(), professor, dto.ActivityRequest{
		Titulo: "Leitura", TurmaID: classA, MateriaID: subjectB,
	}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notas por lote
// ──────────────────────────────────────────────────────────────────────────────

func TestGrades_SaveBatchUpsert(t *testing.T) {
	st := seed(t)
	uc := usecase.NewGradeUseCase(st.Grades(), st, st.Students(), st.Subjects())
	ctx := context.Background()
	item := dto.GradeItem{AlunoID: studentA, MateriaID: subjectA, AnoLetivo: 2024, Bimestre: 1, Nota: decimal.NewNullDecimal(decimal.RequireFromString("7.5"))}

	res, err := uc.SaveBatch(ctx, professor, dto.SaveGradesRequest{Notas: []dto.GradeItem{item}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Salvas)

	item.Nota = decimal.NewNullDecimal(decimal.RequireFromString("8.25"))
	_, err = uc.SaveBatch(ctx, professor, dto.SaveGradesRequest{Notas: []dto.GradeItem{item}})
	require.NoError(t, err)

	list, err := uc.ListByStudent(ctx, professor, studentA)
	require.NoError(t, err)
	require.Len(t, list, 1, "mismo alumno/materia/año/bimestre se actualiza")
	assert.True(t, decimal.RequireFromString("8.25").Equal(list[0].Nota))
}

func TestGrades_LoteInvalidoNoGuardaNada(t *testing.T) {
	st := seed(t)
	uc := usecase.NewGradeUseCase(st.Grades(), st, st.Students(), st.Subjects())
	ctx := context.Background()
	_, err := uc.SaveBatch(ctx, professor, dto.SaveGradesRequest{Notas: []dto.GradeItem{
		{AlunoID: studentA, MateriaID: subjectA, AnoLetivo: 2024, Bimestre: 1, Nota: decimal.NewNullDecimal(decimal.NewFromInt(9))},
		{AlunoID: studentA, MateriaID: subjectA, AnoLetivo: 2024, Bimestre: 2, Nota: decimal.NewNullDecimal(decimal.NewFromInt(11))},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListByStudent(ctx, professor, studentA)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGrades_NotaAusenteRechazaLote(t *testing.T) {
	st := seed(t)
	uc := usecase.NewGradeUseCase(st.Grades(), st, st.Students(), st.Subjects())
	ctx := context.Background()
	_, err := uc.SaveBatch(ctx, professor, dto.SaveGradesRequest{Notas: []dto.GradeItem{
		{AlunoID: studentA, MateriaID: subjectA, AnoLetivo: 2024, Bimestre: 1, Nota: decimal.NewNullDecimal(decimal.NewFromInt(9))},
		{AlunoID: studentA, MateriaID: subjectA, AnoLetivo: 2024, Bimestre: 2},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListByStudent(ctx, professor, studentA)
	require.NoError(t, err)
	assert.Empty(t, list, "una nota ausente no se guarda como 0")
}

func TestGrades_AlumnoDeOtraEscuela(t *testing.T) {
	st := seed(t)
	uc := usecase.NewGradeUseCase(st.Grades(), st, st.Students(), st.Subjects())
	_, err := uc.SaveBatch(context.Background(), professor, dto.SaveGradesRequest{Notas: []dto.GradeItem{
		{AlunoID: studentB, MateriaID: subjectB, AnoLetivo: 2024, Bimestre: 1, Nota: decimal.NewNullDecimal(decimal.NewFromInt(5))},
	}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// failingTx simula un fallo a mitad de la transacción.
type failingTx struct{ inner usecase.GradeTxRunner }

func (f failingTx) RunGrades(ctx context.Context, fn func(repository.GradeRepository) error) error {
	return f.inner.RunGrades(ctx, func(repo repository.GradeRepository) error {
		if err := fn(repo); err != nil {
			return err
		}
		return errors.New("commit fallido")
	})
}

func TestGrades_FalloDeTransaccionRevierte(t *testing.T) {
	st := seed(t)
	uc := usecase.NewGradeUseCase(st.Grades(), failingTx{st}, st.Students(), st.Subjects())
	_, err := uc.SaveBatch(context.Background(), professor, dto.SaveGradesRequest{Notas: []dto.GradeItem{
		{AlunoID: studentA, MateriaID: subjectA, AnoLetivo: 2024, Bimestre: 1, Nota: decimal.NewNullDecimal(decimal.NewFromInt(9))},
	}})
	require.Error(t, err)

	list, err := st.Grades().ListByStudent(context.Background(), studentA)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluation_FirmadaPorElActor(t *testing.T) {
	st := seed(t)
	uc := usecase.NewEvaluationUseCase(st.Evaluations(), st.Students())
	out, err := uc.Create(context.Background(), professor, dto.EvaluationRequest{
		AlunoID: studentA, Atencao: 3, Interacao: 4, Autonomia: 2, Comportamento: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, profID, out.ProfessorID)
	assert.False(t, out.Data.IsZero())
}

func TestEvaluation_EscalaFueraDeRango(t *testing.T) {
	st := seed(t)
	uc := usecase.NewEvaluationUseCase(st.Evaluations(), st.Students())
	_, err := uc.Create(context.Background(), professor, dto.EvaluationRequest{
		AlunoID: studentA, Atencao: 6, Interacao: 4, Autonomia: 2, Comportamento: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// StudentRecordRepos puertos de lectura necesarios para armar la ficha completa del alumno.
type StudentRecordRepos struct {
	Schools      repository.SchoolRepository
	Classes      repository.ClassRepository
	Conditions   repository.ConditionRepository
	Grades       repository.GradeRepository
	Evaluations  repository.EvaluationRepository
	Observations repository.ObservationRepository
	Subjects     repository.SubjectRepository
}

// StudentUseCase casos de uso para alumnos, incluida la ficha consolidada (full-data).
type StudentUseCase struct {
	repo   repository.StudentRepository
	record StudentRecordRepos
}

// NewStudentUseCase construye el caso de uso.
func NewStudentUseCase(repo repository.StudentRepository, record StudentRecordRepos) *StudentUseCase {
	return &StudentUseCase{repo: repo, record: record}
}

// Create matricula un alumno. La turma, si se indica, debe ser de la misma escuela.
func (uc *StudentUseCase) Create(ctx context.Context, actor domain.Actor, in dto.StudentRequest, viewingSchoolID string) (*dto.StudentResponse, error) {
	schoolID, err := writeSchool(actor, in.EscolaID, viewingSchoolID)
	if err != nil {
		return nil, err
	}
	classID, err := uc.checkClass(ctx, schoolID, in.TurmaID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	student := &entity.Student{
		ID:           uuid.New().String(),
		SchoolID:     schoolID,
		ClassID:      classID,
		Name:         in.Nome,
		Enrollment:   in.Matricula,
		BirthDate:    in.DataNascimento,
		GuardianName: in.Responsavel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// GetByID obtiene un alumno visible para el actor.
func (uc *StudentUseCase) GetByID(ctx context.Context, actor domain.Actor, id string) (*dto.StudentResponse, error) {
	student, err := studentGuard{uc.repo}.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// List lista alumnos de la escuela resuelta, opcionalmente filtrando por turma.
func (uc *StudentUseCase) List(ctx context.Context, schoolID, classID string) ([]dto.StudentResponse, error) {
	list, err := uc.repo.List(ctx, repository.StudentFilter{SchoolID: schoolID, ClassID: classID})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StudentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStudentResponse(s))
	}
	return items, nil
}

// Update actualiza los datos del alumno. La escuela no cambia.
func (uc *StudentUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.StudentRequest) (*dto.StudentResponse, error) {
	student, err := studentGuard{uc.repo}.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	classID, err := uc.checkClass(ctx, student.SchoolID, in.TurmaID)
	if err != nil {
		return nil, err
	}
	student.Name = in.Nome
	student.Enrollment = in.Matricula
	student.BirthDate = in.DataNascimento
	student.GuardianName = in.Responsavel
	student.ClassID = classID
	student.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// Delete elimina un alumno y, en cascada, su historial.
func (uc *StudentUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := (studentGuard{uc.repo}).load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// FullData arma la ficha consolidada del alumno: escuela, turma, condiciones, notas,
// evaluaciones y observaciones. Las lecturas se lanzan en paralelo.
func (uc *StudentUseCase) FullData(ctx context.Context, actor domain.Actor, id string) (*dto.StudentFullDataResponse, error) {
	student, err := studentGuard{uc.repo}.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type schoolResult struct {
		school *entity.School
		err    error
	}
	type classResult struct {
		class *entity.Class
		err   error
	}
	type conditionsResult struct {
		list []*entity.StudentCondition
		err  error
	}
	type gradesResult struct {
		list []*entity.BimonthlyGrade
		err  error
	}
	type evaluationsResult struct {
		list []*entity.Evaluation
		err  error
	}
	type observationsResult struct {
		list []*entity.Observation
		err  error
	}
	type subjectsResult struct {
		list []*entity.Subject
		err  error
	}

	schoolCh := make(chan schoolResult, 1)
	classCh := make(chan classResult, 1)
	condCh := make(chan conditionsResult, 1)
	gradeCh := make(chan gradesResult, 1)
	evalCh := make(chan evaluationsResult, 1)
	obsCh := make(chan observationsResult, 1)
	subjCh := make(chan subjectsResult, 1)

	go func() {
		s, err := uc.record.Schools.GetByID(ctx, student.SchoolID)
		schoolCh <- schoolResult{s, err}
	}()
	go func() {
		if student.ClassID == nil {
			classCh <- classResult{}
			return
		}
		c, err := uc.record.Classes.GetByID(ctx, *student.ClassID)
		classCh <- classResult{c, err}
	}()
	go func() {
		list, err := uc.record.Conditions.ListByStudent(ctx, id)
		condCh <- conditionsResult{list, err}
	}()
	go func() {
		list, err := uc.record.Grades.ListByStudent(ctx, id)
		gradeCh <- gradesResult{list, err}
	}()
	go func() {
		list, err := uc.record.Evaluations.ListByStudent(ctx, id)
		evalCh <- evaluationsResult{list, err}
	}()
	go func() {
		list, err := uc.record.Observations.ListByStudent(ctx, id)
		obsCh <- observationsResult{list, err}
	}()
	go func() {
		list, err := uc.record.Subjects.ListBySchool(ctx, student.SchoolID)
		subjCh <- subjectsResult{list, err}
	}()

	sr, cr, condR, gr, er, or, subR := <-schoolCh, <-classCh, <-condCh, <-gradeCh, <-evalCh, <-obsCh, <-subjCh
	for _, err := range []error{sr.err, cr.err, condR.err, gr.err, er.err, or.err, subR.err} {
		if err != nil {
			return nil, err
		}
	}

	out := &dto.StudentFullDataResponse{
		Aluno:       *toStudentResponse(student),
		Escola:      toSchoolResponse(sr.school),
		Turma:       toClassResponse(cr.class),
		Condicoes:   make([]dto.StudentConditionResponse, 0, len(condR.list)),
		Notas:       make([]dto.GradeResponse, 0, len(gr.list)),
		Avaliacoes:  make([]dto.EvaluationResponse, 0, len(er.list)),
		Observacoes: make([]dto.ObservationResponse, 0, len(or.list)),
	}
	for _, c := range condR.list {
		out.Condicoes = append(out.Condicoes, toStudentConditionResponse(c))
	}
	subjectNames := make(map[string]string, len(subR.list))
	for _, sub := range subR.list {
		subjectNames[sub.ID] = sub.Name
	}
	for _, g := range gr.list {
		item := toGradeResponse(g)
		item.Materia = subjectNames[g.SubjectID]
		out.Notas = append(out.Notas, item)
	}
	for _, e := range er.list {
		out.Avaliacoes = append(out.Avaliacoes, toEvaluationResponse(e))
	}
	for _, o := range or.list {
		out.Observacoes = append(out.Observacoes, toObservationResponse(o))
	}
	return out, nil
}

func (uc *StudentUseCase) checkClass(ctx context.Context, schoolID string, classID *string) (*string, error) {
	if classID == nil || *classID == "" {
		return nil, nil
	}
	class, err := uc.record.Classes.GetByID(ctx, *classID)
	if err != nil {
		return nil, err
	}
	if class == nil || class.SchoolID != schoolID {
		return nil, domain.ErrInvalidInput
	}
	return classID, nil
}

func toStudentResponse(s *entity.Student) *dto.StudentResponse {
	if s == nil {
		return nil
	}
	return &dto.StudentResponse{
		ID:             s.ID,
		Nome:           s.Name,
		Matricula:      s.Enrollment,
		DataNascimento: s.BirthDate,
		Responsavel:    s.GuardianName,
		TurmaID:        s.ClassID,
		EscolaID:       s.SchoolID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

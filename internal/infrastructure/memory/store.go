// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORAGE=memory para levantar la API sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// Store guarda todas las entidades tras un único mutex.
type Store struct {
	mu           sync.RWMutex
	schools      map[string]entity.School
	teachers     map[string]entity.Teacher
	classes      map[string]entity.Class
	subjects     map[string]entity.Subject
	students     map[string]entity.Student
	conditions   map[string]entity.MedicalCondition
	assignments  map[string]entity.StudentCondition // alumno|condición
	activities   map[string]entity.Activity
	grades       map[string]entity.BimonthlyGrade // alumno|materia|año|bimestre
	observations []entity.Observation
	evaluations  []entity.Evaluation
	insights     []entity.Insight
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		schools:     make(map[string]entity.School),
		teachers:    make(map[string]entity.Teacher),
		classes:     make(map[string]entity.Class),
		subjects:    make(map[string]entity.Subject),
		students:    make(map[string]entity.Student),
		conditions:  make(map[string]entity.MedicalCondition),
		assignments: make(map[string]entity.StudentCondition),
		activities:  make(map[string]entity.Activity),
		grades:      make(map[string]entity.BimonthlyGrade),
	}
}

var (
	_ repository.SchoolRepository      = (*SchoolRepo)(nil)
	_ repository.TeacherRepository     = (*TeacherRepo)(nil)
	_ repository.ClassRepository       = (*ClassRepo)(nil)
	_ repository.SubjectRepository     = (*SubjectRepo)(nil)
	_ repository.StudentRepository     = (*StudentRepo)(nil)
	_ repository.ConditionRepository   = (*ConditionRepo)(nil)
	_ repository.ActivityRepository    = (*ActivityRepo)(nil)
	_ repository.GradeRepository       = (*GradeRepo)(nil)
	_ repository.ObservationRepository = (*ObservationRepo)(nil)
	_ repository.EvaluationRepository  = (*EvaluationRepo)(nil)
	_ repository.InsightRepository     = (*InsightRepo)(nil)
)

func (s *Store) Schools() *SchoolRepo           { return &SchoolRepo{s} }
func (s *Store) Teachers() *TeacherRepo         { return &TeacherRepo{s} }
func (s *Store) Classes() *ClassRepo            { return &ClassRepo{s} }
func (s *Store) Subjects() *SubjectRepo         { return &SubjectRepo{s} }
func (s *Store) Students() *StudentRepo         { return &StudentRepo{s} }
func (s *Store) Conditions() *ConditionRepo     { return &ConditionRepo{s} }
func (s *Store) Activities() *ActivityRepo      { return &ActivityRepo{s} }
func (s *Store) Grades() *GradeRepo             { return &GradeRepo{s} }
func (s *Store) Observations() *ObservationRepo { return &ObservationRepo{s} }
func (s *Store) Evaluations() *EvaluationRepo   { return &EvaluationRepo{s} }
func (s *Store) Insights() *InsightRepo         { return &InsightRepo{s} }

// RunGrades ejecuta fn sobre una copia de las notas y la aplica solo si fn no falla.
func (s *Store) RunGrades(ctx context.Context, fn func(grades repository.GradeRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := make(map[string]entity.BimonthlyGrade, len(s.grades))
	for k, v := range s.grades {
		staged[k] = v
	}
	if err := fn(&txGrades{staged: staged}); err != nil {
		return err
	}
	s.grades = staged
	return nil
}

func gradeKey(g *entity.BimonthlyGrade) string {
	return strings.Join([]string{g.StudentID, g.SubjectID, strconv.Itoa(g.SchoolYear), strconv.Itoa(g.Bimester)}, "|")
}

// SchoolRepo escuelas.
type SchoolRepo struct{ s *Store }

func (r *SchoolRepo) Create(_ context.Context, v *entity.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schools[v.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.schools[v.ID] = *v
	return nil
}

func (r *SchoolRepo) GetByID(_ context.Context, id string) (*entity.School, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.schools[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *SchoolRepo) Update(_ context.Context, v *entity.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schools[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.schools[v.ID] = *v
	return nil
}

func (r *SchoolRepo) List(_ context.Context) ([]*entity.School, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.School, 0, len(r.s.schools))
	for _, v := range r.s.schools {
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SchoolRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schools[id]; !ok {
		return domain.ErrNotFound
	}
	if r.s.schoolInUse(id) {
		return domain.ErrConflict
	}
	delete(r.s.schools, id)
	return nil
}

// schoolInUse docentes, turmas, materias o alumnos impiden borrar la escuela.
func (s *Store) schoolInUse(id string) bool {
	for _, v := range s.teachers {
		if v.SchoolID == id {
			return true
		}
	}
	for _, v := range s.classes {
		if v.SchoolID == id {
			return true
		}
	}
	for _, v := range s.subjects {
		if v.SchoolID == id {
			return true
		}
	}
	for _, v := range s.students {
		if v.SchoolID == id {
			return true
		}
	}
	return false
}

// TeacherRepo docentes.
type TeacherRepo struct{ s *Store }

func (r *TeacherRepo) Create(_ context.Context, v *entity.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.teachers {
		if t.Registro == v.Registro {
			return domain.ErrRegistroAlreadyUsed
		}
	}
	r.s.teachers[v.ID] = *v
	return nil
}

func (r *TeacherRepo) GetByID(_ context.Context, id string) (*entity.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.teachers[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *TeacherRepo) GetByRegistro(_ context.Context, registro string) (*entity.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, v := range r.s.teachers {
		if v.Registro == registro {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *TeacherRepo) Update(_ context.Context, v *entity.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teachers[v.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, t := range r.s.teachers {
		if t.ID != v.ID && t.Registro == v.Registro {
			return domain.ErrRegistroAlreadyUsed
		}
	}
	r.s.teachers[v.ID] = *v
	return nil
}

func (r *TeacherRepo) ListBySchool(_ context.Context, schoolID string) ([]*entity.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Teacher, 0)
	for _, v := range r.s.teachers {
		if schoolID == "" || v.SchoolID == schoolID {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeacherRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teachers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.teachers, id)
	for k, v := range r.s.subjects {
		if v.ProfessorID != nil && *v.ProfessorID == id {
			v.ProfessorID = nil
			r.s.subjects[k] = v
		}
	}
	for k, v := range r.s.activities {
		if v.ProfessorID == id {
			delete(r.s.activities, k)
		}
	}
	r.s.observations = filterOut(r.s.observations, func(o entity.Observation) bool { return o.ProfessorID == id })
	r.s.evaluations = filterOut(r.s.evaluations, func(e entity.Evaluation) bool { return e.ProfessorID == id })
	r.s.insights = filterOut(r.s.insights, func(i entity.Insight) bool { return i.AuthorID == id })
	return nil
}

func filterOut[T any](list []T, drop func(T) bool) []T {
	out := list[:0]
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

// ClassRepo turmas.
type ClassRepo struct{ s *Store }

func (r *ClassRepo) Create(_ context.Context, v *entity.Class) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.classes[v.ID] = *v
	return nil
}

func (r *ClassRepo) GetByID(_ context.Context, id string) (*entity.Class, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.classes[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *ClassRepo) Update(_ context.Context, v *entity.Class) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.classes[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.classes[v.ID] = *v
	return nil
}

func (r *ClassRepo) ListBySchool(_ context.Context, schoolID string) ([]*entity.Class, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Class, 0)
	for _, v := range r.s.classes {
		if schoolID == "" || v.SchoolID == schoolID {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ClassRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.classes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.classes, id)
	for k, v := range r.s.students {
		if v.ClassID != nil && *v.ClassID == id {
			v.ClassID = nil
			r.s.students[k] = v
		}
	}
	for k, v := range r.s.activities {
		if v.ClassID == id {
			delete(r.s.activities, k)
		}
	}
	return nil
}

// SubjectRepo materias.
type SubjectRepo struct{ s *Store }

func (r *SubjectRepo) Create(_ context.Context, v *entity.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subjects[v.ID] = *v
	return nil
}

func (r *SubjectRepo) GetByID(_ context.Context, id string) (*entity.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.subjects[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *SubjectRepo) Update(_ context.Context, v *entity.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subjects[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.subjects[v.ID] = *v
	return nil
}

func (r *SubjectRepo) ListBySchool(_ context.Context, schoolID string) ([]*entity.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Subject, 0)
	for _, v := range r.s.subjects {
		if schoolID == "" || v.SchoolID == schoolID {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SubjectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subjects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.subjects, id)
	for k, v := range r.s.activities {
		if v.SubjectID == id {
			delete(r.s.activities, k)
		}
	}
	for k, v := range r.s.grades {
		if v.SubjectID == id {
			delete(r.s.grades, k)
		}
	}
	return nil
}

// StudentRepo alumnos.
type StudentRepo struct{ s *Store }

func (r *StudentRepo) Create(_ context.Context, v *entity.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.students {
		if st.SchoolID == v.SchoolID && st.Enrollment == v.Enrollment {
			return domain.ErrDuplicate
		}
	}
	r.s.students[v.ID] = *v
	return nil
}

func (r *StudentRepo) GetByID(_ context.Context, id string) (*entity.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.students[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *StudentRepo) Update(_ context.Context, v *entity.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.students[v.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, st := range r.s.students {
		if st.ID != v.ID && st.SchoolID == v.SchoolID && st.Enrollment == v.Enrollment {
			return domain.ErrDuplicate
		}
	}
	r.s.students[v.ID] = *v
	return nil
}

func (r *StudentRepo) List(_ context.Context, f repository.StudentFilter) ([]*entity.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Student, 0)
	for _, v := range r.s.students {
		if f.SchoolID != "" && v.SchoolID != f.SchoolID {
			continue
		}
		if f.ClassID != "" && (v.ClassID == nil || *v.ClassID != f.ClassID) {
			continue
		}
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *StudentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.students[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.students, id)
	for k, v := range r.s.assignments {
		if v.StudentID == id {
			delete(r.s.assignments, k)
		}
	}
	for k, v := range r.s.grades {
		if v.StudentID == id {
			delete(r.s.grades, k)
		}
	}
	r.s.observations = filterOut(r.s.observations, func(o entity.Observation) bool { return o.StudentID == id })
	r.s.evaluations = filterOut(r.s.evaluations, func(e entity.Evaluation) bool { return e.StudentID == id })
	r.s.insights = filterOut(r.s.insights, func(i entity.Insight) bool { return i.StudentID == id })
	return nil
}

// ConditionRepo catálogo y asignaciones.
type ConditionRepo struct{ s *Store }

func (r *ConditionRepo) Create(_ context.Context, v *entity.MedicalCondition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conditions {
		if strings.EqualFold(c.Name, v.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.conditions[v.ID] = *v
	return nil
}

func (r *ConditionRepo) GetByID(_ context.Context, id string) (*entity.MedicalCondition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.conditions[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *ConditionRepo) List(_ context.Context) ([]*entity.MedicalCondition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.MedicalCondition, 0, len(r.s.conditions))
	for _, v := range r.s.conditions {
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ConditionRepo) Assign(_ context.Context, v *entity.StudentCondition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *v
	stored.Condition = nil
	r.s.assignments[v.StudentID+"|"+v.ConditionID] = stored
	return nil
}

func (r *ConditionRepo) ListByStudent(_ context.Context, studentID string) ([]*entity.StudentCondition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StudentCondition, 0)
	for _, v := range r.s.assignments {
		if v.StudentID != studentID {
			continue
		}
		if c, ok := r.s.conditions[v.ConditionID]; ok {
			v.Condition = &c
		}
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.Before(out[j].AssignedAt) })
	return out, nil
}

// ActivityRepo actividades.
type ActivityRepo struct{ s *Store }

func (r *ActivityRepo) Create(_ context.Context, v *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activities[v.ID] = *v
	return nil
}

func (r *ActivityRepo) GetByID(_ context.Context, id string) (*entity.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.activities[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *ActivityRepo) Update(_ context.Context, v *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.activities[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.activities[v.ID] = *v
	return nil
}

func (r *ActivityRepo) List(_ context.Context, f repository.ActivityFilter) ([]*entity.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Activity, 0)
	for _, v := range r.s.activities {
		if (f.SchoolID != "" && v.SchoolID != f.SchoolID) ||
			(f.ProfessorID != "" && v.ProfessorID != f.ProfessorID) ||
			(f.ClassID != "" && v.ClassID != f.ClassID) {
			continue
		}
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ActivityRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.activities[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.activities, id)
	return nil
}

// GradeRepo notas fuera de transacción.
type GradeRepo struct{ s *Store }

func (r *GradeRepo) ListByStudent(_ context.Context, studentID string) ([]*entity.BimonthlyGrade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listGrades(r.s.grades, studentID), nil
}

func (r *GradeRepo) Upsert(_ context.Context, g *entity.BimonthlyGrade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	upsertGrade(r.s.grades, g)
	return nil
}

type txGrades struct {
	staged map[string]entity.BimonthlyGrade
}

func (t *txGrades) ListByStudent(_ context.Context, studentID string) ([]*entity.BimonthlyGrade, error) {
	return listGrades(t.staged, studentID), nil
}

func (t *txGrades) Upsert(_ context.Context, g *entity.BimonthlyGrade) error {
	upsertGrade(t.staged, g)
	return nil
}

func upsertGrade(m map[string]entity.BimonthlyGrade, g *entity.BimonthlyGrade) {
	key := gradeKey(g)
	if prev, ok := m[key]; ok {
		g.ID = prev.ID
		g.CreatedAt = prev.CreatedAt
	}
	m[key] = *g
}

func listGrades(m map[string]entity.BimonthlyGrade, studentID string) []*entity.BimonthlyGrade {
	out := make([]*entity.BimonthlyGrade, 0)
	for _, v := range m {
		if v.StudentID == studentID {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SchoolYear != b.SchoolYear {
			return a.SchoolYear < b.SchoolYear
		}
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		return a.Bimester < b.Bimester
	})
	return out
}

// ObservationRepo observaciones.
type ObservationRepo struct{ s *Store }

func (r *ObservationRepo) Create(_ context.Context, v *entity.Observation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.observations = append(r.s.observations, *v)
	return nil
}

func (r *ObservationRepo) ListByStudent(_ context.Context, studentID string) ([]*entity.Observation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Observation, 0)
	for i := len(r.s.observations) - 1; i >= 0; i-- {
		if v := r.s.observations[i]; v.StudentID == studentID {
			out = append(out, &v)
		}
	}
	return out, nil
}

// EvaluationRepo evaluaciones.
type EvaluationRepo struct{ s *Store }

func (r *EvaluationRepo) Create(_ context.Context, v *entity.Evaluation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.evaluations = append(r.s.evaluations, *v)
	return nil
}

func (r *EvaluationRepo) ListByStudent(_ context.Context, studentID string) ([]*entity.Evaluation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Evaluation, 0)
	for i := len(r.s.evaluations) - 1; i >= 0; i-- {
		if v := r.s.evaluations[i]; v.StudentID == studentID {
			out = append(out, &v)
		}
	}
	return out, nil
}

// InsightRepo insights.
type InsightRepo struct{ s *Store }

func (r *InsightRepo) Create(_ context.Context, v *entity.Insight) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.insights = append(r.s.insights, *v)
	return nil
}

func (r *InsightRepo) ListByStudent(_ context.Context, studentID string) ([]*entity.Insight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Insight, 0)
	for i := len(r.s.insights) - 1; i >= 0; i-- {
		if v := r.s.insights[i]; v.StudentID == studentID {
			out = append(out, &v)
		}
	}
	return out, nil
}

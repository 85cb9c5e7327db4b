package manager

import (
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// Resource describe un recurso REST para Manager.
type Resource[T any] struct {
	Name string
	// Path base para POST, PUT /{id} y DELETE /{id}.
	Path string
	// ListPath GET de la lista; vacío = Path.
	ListPath     string
	SchoolScoped bool
	// SchoolField campo del formulario que recibe la escuela seleccionada en un alta.
	SchoolField string
	Required    []string
	ID          func(T) string
	Text        func(T) string
	// OwnerField se fuerza al id del usuario cuando su cargo está en OwnerRoles.
	OwnerField string
	OwnerRoles []domain.Role
}

func (r Resource[T]) listPath() string {
	if r.ListPath != "" {
		return r.ListPath
	}
	return r.Path
}

// Label nombre para mensajes.
func (r Resource[T]) Label() string { return r.Name }

var professorOnly = []domain.Role{domain.RoleProfessor}

// Schools escolas (sin alcance: el servidor ya filtra por cargo).
func Schools() Resource[dto.SchoolResponse] {
	return Resource[dto.SchoolResponse]{
		Name:     "escola",
		Path:     "/api/escolas",
		Required: []string{"nome"},
		ID:       func(s dto.SchoolResponse) string { return s.ID },
		Text:     func(s dto.SchoolResponse) string { return s.Nome + " " + s.Email },
	}
}

// Teachers docentes de la escuela seleccionada.
func Teachers() Resource[dto.TeacherResponse] {
	return Resource[dto.TeacherResponse]{
		Name:         "docente",
		Path:         "/api/docentes",
		SchoolScoped: true,
		SchoolField:  "escolaId",
		Required:     []string{"nome", "registro", "cargo"},
		ID:           func(t dto.TeacherResponse) string { return t.ID },
		Text:         func(t dto.TeacherResponse) string { return t.Nome + " " + t.Registro + " " + t.Email },
	}
}

// Classes turmas.
func Classes() Resource[dto.ClassResponse] {
	return Resource[dto.ClassResponse]{
		Name:         "turma",
		Path:         "/api/turmas",
		SchoolScoped: true,
		SchoolField:  "escolaId",
		Required:     []string{"nome", "anoLetivo", "turno"},
		ID:           func(c dto.ClassResponse) string { return c.ID },
		Text:         func(c dto.ClassResponse) string { return c.Nome + " " + c.Turno },
	}
}

// Subjects matérias.
func Subjects() Resource[dto.SubjectResponse] {
	return Resource[dto.SubjectResponse]{
		Name:         "matéria",
		Path:         "/api/materias",
		SchoolScoped: true,
		SchoolField:  "escolaId",
		Required:     []string{"nome"},
		ID:           func(s dto.SubjectResponse) string { return s.ID },
		Text:         func(s dto.SubjectResponse) string { return s.Nome },
	}
}

// Students alunos; filtrables por turma con SetParam("turmaId", id).
func Students() Resource[dto.StudentResponse] {
	return Resource[dto.StudentResponse]{
		Name:         "aluno",
		Path:         "/api/alunos",
		SchoolScoped: true,
		SchoolField:  "escolaId",
		Required:     []string{"nome", "matricula"},
		ID:           func(s dto.StudentResponse) string { return s.ID },
		Text:         func(s dto.StudentResponse) string { return s.Nome + " " + s.Matricula + " " + s.Responsavel },
	}
}

// Activities atividades. Para un Professor, professorId es siempre el suyo.
func Activities() Resource[dto.ActivityResponse] {
	return Resource[dto.ActivityResponse]{
		Name:         "atividade",
		Path:         "/api/atividades",
		SchoolScoped: true,
		SchoolField:  "escolaId",
		Required:     []string{"titulo", "turmaId", "materiaId"},
		ID:           func(a dto.ActivityResponse) string { return a.ID },
		Text:         func(a dto.ActivityResponse) string { return a.Titulo + " " + a.Descricao },
		OwnerField:   "professorId",
		OwnerRoles:   professorOnly,
	}
}

// Conditions catálogo de condiciones.
func Conditions() Resource[dto.ConditionResponse] {
	return Resource[dto.ConditionResponse]{
		Name:     "condição",
		Path:     "/api/condicoes",
		Required: []string{"nome"},
		ID:       func(c dto.ConditionResponse) string { return c.ID },
		Text:     func(c dto.ConditionResponse) string { return c.Nome + " " + c.CID },
	}
}

// Observations observações de un alumno. El alta lleva alunoId en el formulario.
func Observations(studentID string) Resource[dto.ObservationResponse] {
	return Resource[dto.ObservationResponse]{
		Name:     "observação",
		Path:     "/api/observacoes",
		ListPath: "/api/observacoes/aluno/" + studentID,
		Required: []string{"alunoId", "texto"},
		ID:       func(o dto.ObservationResponse) string { return o.ID },
		Text:     func(o dto.ObservationResponse) string { return o.Texto },
	}
}

// Evaluations avaliações de un alumno.
func Evaluations(studentID string) Resource[dto.EvaluationResponse] {
	return Resource[dto.EvaluationResponse]{
		Name:     "avaliação",
		Path:     "/api/avaliacoes",
		ListPath: "/api/avaliacoes/aluno/" + studentID,
		Required: []string{"alunoId", "atencao", "interacao", "autonomia", "comportamento"},
		ID:       func(e dto.EvaluationResponse) string { return e.ID },
		Text:     func(e dto.EvaluationResponse) string { return e.Comentario },
	}
}

// Insights historial de insights de un alumno. La generación va por el paquete insight.
func Insights(studentID string) Resource[dto.InsightResponse] {
	return Resource[dto.InsightResponse]{
		Name:     "insight",
		Path:     "/api/insights/aluno/" + studentID,
		Required: []string{"prompt"},
		ID:       func(i dto.InsightResponse) string { return i.ID },
		Text:     func(i dto.InsightResponse) string { return i.Prompt + " " + i.Conteudo },
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/analytics"
	"github.com/jhoicas/cognitiva-api/internal/application/auth"
	"github.com/jhoicas/cognitiva-api/internal/application/insight"
	"github.com/jhoicas/cognitiva-api/internal/application/report"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	SchoolUC      *usecase.SchoolUseCase
	TeacherUC     *usecase.TeacherUseCase
	ClassUC       *usecase.ClassUseCase
	SubjectUC     *usecase.SubjectUseCase
	StudentUC     *usecase.StudentUseCase
	ActivityUC    *usecase.ActivityUseCase
	ConditionUC   *usecase.ConditionUseCase
	GradeUC       *usecase.GradeUseCase
	ObservationUC *usecase.ObservationUseCase
	EvaluationUC  *usecase.EvaluationUseCase
	InsightUC     *insight.UseCase
	StudentPDF    *report.PDFUseCase
	DashboardUC   *analytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Auth (público). /login se mantiene por compatibilidad con los clientes existentes.
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/login", authHandler.Login)

	api := app.Group("/api")
	api.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(domain.RoleAdministrador)
	managers := RequireRole(domain.RoleAdministrador, domain.RoleSupervisor)

	// Escolas
	schools := protected.Group("/escolas")
	schoolHandler := NewSchoolHandler(deps.SchoolUC)
	schools.Get("/", schoolHandler.List)
	schools.Get("/:id", schoolHandler.GetByID)
	schools.Post("/", adminOnly, schoolHandler.Create)
	schools.Put("/:id", adminOnly, schoolHandler.Update)
	schools.Delete("/:id", adminOnly, schoolHandler.Delete)

	// Docentes
	teachers := protected.Group("/docentes")
	teacherHandler := NewTeacherHandler(deps.TeacherUC)
	teachers.Get("/acessos", teacherHandler.Access)
	teachers.Get("/", teacherHandler.List)
	teachers.Get("/:id", teacherHandler.GetByID)
	teachers.Post("/", managers, teacherHandler.Create)
	teachers.Put("/:id", managers, teacherHandler.Update)
	teachers.Delete("/:id", managers, teacherHandler.Delete)

	// Turmas
	classes := protected.Group("/turmas")
	classHandler := NewClassHandler(deps.ClassUC)
	classes.Get("/", classHandler.List)
	classes.Get("/:id", classHandler.GetByID)
	classes.Post("/", managers, classHandler.Create)
	classes.Put("/:id", managers, classHandler.Update)
	classes.Delete("/:id", managers, classHandler.Delete)

	// Alunos
	students := protected.Group("/alunos")
	studentHandler := NewStudentHandler(deps.StudentUC, deps.StudentPDF)
	students.Get("/", studentHandler.List)
	students.Get("/:id/full-data", studentHandler.FullData)
	students.Get("/:id/relatorio", studentHandler.Report)
	students.Get("/:id", studentHandler.GetByID)
	students.Post("/", managers, studentHandler.Create)
	students.Put("/:id", managers, studentHandler.Update)
	students.Delete("/:id", managers, studentHandler.Delete)

	// Matérias
	subjects := protected.Group("/materias")
	subjectHandler := NewSubjectHandler(deps.SubjectUC)
	subjects.Get("/", subjectHandler.List)
	subjects.Post("/", managers, subjectHandler.Create)
	subjects.Put("/:id", managers, subjectHandler.Update)
	subjects.Delete("/:id", managers, subjectHandler.Delete)

	// Atividades (cualquier cargo; el Professor queda como dueño)
	activities := protected.Group("/atividades")
	activityHandler := NewActivityHandler(deps.ActivityUC)
	activities.Get("/", activityHandler.List)
	activities.Get("/:id", activityHandler.GetByID)
	activities.Post("/", activityHandler.Create)
	activities.Put("/:id", activityHandler.Update)
	activities.Delete("/:id", activityHandler.Delete)

	// Condições
	conditions := protected.Group("/condicoes")
	conditionHandler := NewConditionHandler(deps.ConditionUC)
	conditions.Get("/", conditionHandler.List)
	conditions.Post("/atribuir", managers, conditionHandler.Assign)
	conditions.Post("/", managers, conditionHandler.Create)

	// Notas bimestrais
	grades := protected.Group("/notasBimestrais")
	gradeHandler := NewGradeHandler(deps.GradeUC)
	grades.Get("/aluno/:id", gradeHandler.ListByStudent)
	grades.Post("/salvarLote", gradeHandler.SaveBatch)

	// Observações y avaliações
	recordHandler := NewRecordHandler(deps.ObservationUC, deps.EvaluationUC)
	protected.Post("/observacoes", recordHandler.CreateObservation)
	protected.Get("/observacoes/aluno/:id", recordHandler.ListObservations)
	protected.Post("/avaliacoes", recordHandler.CreateEvaluation)
	protected.Get("/avaliacoes/aluno/:id", recordHandler.ListEvaluations)

	// Panel de inicio
	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).Summary)

	// Insights de IA
	insightHandler := NewInsightHandler(deps.InsightUC)
	protected.Get("/insights/aluno/:id", insightHandler.History)
	protected.Post("/insights/aluno/:id", insightHandler.Generate)
}

// Package server arma la aplicación: repositorios (PostgreSQL o memoria), casos de uso y app Fiber.
package server

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/cognitiva-api/internal/application/analytics"
	"github.com/jhoicas/cognitiva-api/internal/application/auth"
	"github.com/jhoicas/cognitiva-api/internal/application/insight"
	"github.com/jhoicas/cognitiva-api/internal/application/ports"
	"github.com/jhoicas/cognitiva-api/internal/application/report"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/cognitiva-api/internal/interfaces/http"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

// Repos puertos de persistencia de toda la aplicación.
type Repos struct {
	Schools      repository.SchoolRepository
	Teachers     repository.TeacherRepository
	Classes      repository.ClassRepository
	Subjects     repository.SubjectRepository
	Students     repository.StudentRepository
	Conditions   repository.ConditionRepository
	Activities   repository.ActivityRepository
	Grades       repository.GradeRepository
	Observations repository.ObservationRepository
	Evaluations  repository.EvaluationRepository
	Insights     repository.InsightRepository
	Analytics    repository.AnalyticsRepository
	GradeTx      usecase.GradeTxRunner
}

// PostgresRepos repositorios sobre el pool.
func PostgresRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Schools:      postgres.NewSchoolRepository(pool),
		Teachers:     postgres.NewTeacherRepository(pool),
		Classes:      postgres.NewClassRepository(pool),
		Subjects:     postgres.NewSubjectRepository(pool),
		Students:     postgres.NewStudentRepository(pool),
		Conditions:   postgres.NewConditionRepository(pool),
		Activities:   postgres.NewActivityRepository(pool),
		Grades:       postgres.NewGradeRepository(pool),
		Observations: postgres.NewObservationRepository(pool),
		Evaluations:  postgres.NewEvaluationRepository(pool),
		Insights:     postgres.NewInsightRepository(pool),
		Analytics:    postgres.NewAnalyticsRepository(pool),
		GradeTx:      postgres.NewTxRunner(pool),
	}
}

// MemoryRepos repositorios sobre el store en memoria.
func MemoryRepos(st *memory.Store) Repos {
	return Repos{
		Schools:      st.Schools(),
		Teachers:     st.Teachers(),
		Classes:      st.Classes(),
		Subjects:     st.Subjects(),
		Students:     st.Students(),
		Conditions:   st.Conditions(),
		Activities:   st.Activities(),
		Grades:       st.Grades(),
		Observations: st.Observations(),
		Evaluations:  st.Evaluations(),
		Insights:     st.Insights(),
		Analytics:    st.Analytics(),
		GradeTx:      st,
	}
}

// Options colaboradores externos y ajustes del servidor.
type Options struct {
	AppName     string
	JWT         auth.JWTConfig
	LLM         ports.LLMService
	Lock        ports.GenerationLock
	PDF         ports.ReportPDFGenerator // nil = reporte deshabilitado
	Log         *logger.Logger
	SwaggerFile string // vacío = sin /docs
}

// Deps construye los casos de uso y las dependencias del router.
func Deps(r Repos, o Options) apphttp.RouterDeps {
	students := usecase.NewStudentUseCase(r.Students, usecase.StudentRecordRepos{
		Schools:      r.Schools,
		Classes:      r.Classes,
		Conditions:   r.Conditions,
		Grades:       r.Grades,
		Evaluations:  r.Evaluations,
		Observations: r.Observations,
		Subjects:     r.Subjects,
	})
	insights := insight.NewUseCase(students, r.Insights, o.LLM, o.Lock, o.Log)

	deps := apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(r.Teachers, o.JWT),
		SchoolUC:      usecase.NewSchoolUseCase(r.Schools),
		TeacherUC:     usecase.NewTeacherUseCase(r.Teachers, r.Schools),
		ClassUC:       usecase.NewClassUseCase(r.Classes),
		SubjectUC:     usecase.NewSubjectUseCase(r.Subjects, r.Teachers),
		StudentUC:     students,
		ActivityUC:    usecase.NewActivityUseCase(r.Activities, r.Classes, r.Subjects, r.Teachers),
		ConditionUC:   usecase.NewConditionUseCase(r.Conditions, r.Students),
		GradeUC:       usecase.NewGradeUseCase(r.Grades, r.GradeTx, r.Students, r.Subjects),
		ObservationUC: usecase.NewObservationUseCase(r.Observations, r.Students),
		EvaluationUC:  usecase.NewEvaluationUseCase(r.Evaluations, r.Students),
		InsightUC:     insights,
		DashboardUC:   analytics.NewDashboardUseCase(r.Analytics, r.Schools),
		JWTSecret:     o.JWT.Secret,
	}
	if o.PDF != nil {
		deps.StudentPDF = report.NewPDFUseCase(students, insights, o.PDF)
	}
	return deps
}

// New crea la app Fiber con recover, log de peticiones, /health, /docs y las rutas de la API.
func New(r Repos, o Options) *fiber.App {
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      o.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45, // la generación de insights puede tardar hasta el timeout del LLM
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(apphttp.RequestLogger(o.Log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if o.SwaggerFile != "" {
		if _, err := os.Stat(o.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: o.SwaggerFile,
				Path:     "docs",
				Title:    "Cognitiva API",
			}))
		} else {
			o.Log.Warn().Str("file", o.SwaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": o.AppName})
	})

	apphttp.Router(app, Deps(r, o))
	return app
}

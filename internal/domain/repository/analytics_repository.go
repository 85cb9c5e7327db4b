package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SchoolCounts totales de una escuela para el panel de inicio.
type SchoolCounts struct {
	Teachers               int
	Classes                int
	Subjects               int
	Students               int
	StudentsWithConditions int // alumnos con al menos una condición asignada
}

// SubjectAverage media de las notas de una materia en un año lectivo.
type SubjectAverage struct {
	SubjectID   string
	SubjectName string
	Average     decimal.Decimal
	Grades      int
}

// AnalyticsRepository consultas de solo lectura para el panel de una escuela.
type AnalyticsRepository interface {
	Counts(ctx context.Context, schoolID string) (SchoolCounts, error)

	// SubjectAverages materias de la escuela con al menos una nota en el año, de mayor a menor media.
	SubjectAverages(ctx context.Context, schoolID string, schoolYear int) ([]SubjectAverage, error)

	// InsightsSince insights generados para alumnos de la escuela desde since (inclusive).
	InsightsSince(ctx context.Context, schoolID string, since time.Time) (int, error)
}

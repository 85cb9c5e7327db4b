package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel de inicio.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// Counts totales de la escuela en una sola consulta.
func (r *AnalyticsRepo) Counts(ctx context.Context, schoolID string) (repository.SchoolCounts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM teachers WHERE school_id = $1)                 AS teachers,
	    (SELECT COUNT(*) FROM classes  WHERE school_id = $1)                 AS classes,
	    (SELECT COUNT(*) FROM subjects WHERE school_id = $1)                 AS subjects,
	    (SELECT COUNT(*) FROM students WHERE school_id = $1)                 AS students,
	    (SELECT COUNT(DISTINCT sc.student_id)
	       FROM student_conditions sc
	       JOIN students s ON s.id = sc.student_id
	      WHERE s.school_id = $1)                                            AS students_with_conditions`

	var c repository.SchoolCounts
	if err := r.q.QueryRow(ctx, query, schoolID).Scan(
		&c.Teachers,
		&c.Classes,
		&c.Subjects,
		&c.Students,
		&c.StudentsWithConditions,
	); err != nil {
		return repository.SchoolCounts{}, fmt.Errorf("analytics.Counts: %w", err)
	}
	return c, nil
}

// SubjectAverages media de bimonthly_grades por materia. AVG sobre NUMERIC devuelve NUMERIC,
// escaneado a decimal.Decimal por el tipo registrado en el pool.
func (r *AnalyticsRepo) SubjectAverages(ctx context.Context, schoolID string, schoolYear int) ([]repository.SubjectAverage, error) {
	const query = `
	SELECT
	    sub.id,
	    sub.name,
	    AVG(g.grade)  AS average,
	    COUNT(g.id)   AS grades
	FROM bimonthly_grades g
	JOIN subjects sub ON sub.id = g.subject_id
	WHERE sub.school_id = $1
	  AND g.school_year = $2
	GROUP BY sub.id, sub.name
	ORDER BY average DESC, sub.name`

	rows, err := r.q.Query(ctx, query, schoolID, schoolYear)
	if err != nil {
		return nil, fmt.Errorf("analytics.SubjectAverages: %w", err)
	}
	defer rows.Close()

	var results []repository.SubjectAverage
	for rows.Next() {
		var row repository.SubjectAverage
		if err := rows.Scan(&row.SubjectID, &row.SubjectName, &row.Average, &row.Grades); err != nil {
			return nil, fmt.Errorf("analytics.SubjectAverages scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// InsightsSince cuenta insights de alumnos de la escuela desde since.
func (r *AnalyticsRepo) InsightsSince(ctx context.Context, schoolID string, since time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM insights i
	JOIN students s ON s.id = i.student_id
	WHERE s.school_id = $1
	  AND i.created_at >= $2`

	var n int
	if err := r.q.QueryRow(ctx, query, schoolID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.InsightsSince: %w", err)
	}
	return n, nil
}

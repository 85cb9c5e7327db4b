// Package analytics contiene los casos de uso de solo lectura del panel de inicio.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

// recentInsightsWindow ventana del contador de insights recientes.
const recentInsightsWindow = 30 * 24 * time.Hour

// DashboardUseCase genera el resumen de una escuela: totales, medias por materia del año
// lectivo e insights recientes.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	schoolRepo    repository.SchoolRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, schoolRepo repository.SchoolRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, schoolRepo: schoolRepo, now: time.Now}
}

// GetSummary construye el panel. schoolID vacío = escuela del actor; schoolYear 0 = año en curso.
//
// Tres consultas en paralelo:
//  1. Counts           → totales
//  2. SubjectAverages  → medias por materia
//  3. InsightsSince    → insights de los últimos 30 días
func (uc *DashboardUseCase) GetSummary(
	ctx context.Context,
	actor domain.Actor,
	schoolID string,
	schoolYear int,
) (*dto.DashboardResponse, error) {
	if schoolID == "" {
		schoolID = actor.SchoolID
	}
	if !actor.CanAccessSchool(schoolID) {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	if schoolYear == 0 {
		schoolYear = now.Year()
	}
	if schoolYear < 2000 || schoolYear > 2100 {
		return nil, domain.ErrInvalidInput
	}
	school, err := uc.schoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, domain.ErrNotFound
	}

	type countsResult struct {
		counts repository.SchoolCounts
		err    error
	}
	type averagesResult struct {
		averages []repository.SubjectAverage
		err      error
	}
	type insightsResult struct {
		total int
		err   error
	}

	countsCh := make(chan countsResult, 1)
	averagesCh := make(chan averagesResult, 1)
	insightsCh := make(chan insightsResult, 1)

	go func() {
		c, err := uc.analyticsRepo.Counts(ctx, schoolID)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		a, err := uc.analyticsRepo.SubjectAverages(ctx, schoolID, schoolYear)
		averagesCh <- averagesResult{a, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.InsightsSince(ctx, schoolID, now.Add(-recentInsightsWindow))
		insightsCh <- insightsResult{n, err}
	}()

	counts := <-countsCh
	averages := <-averagesCh
	insights := <-insightsCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", counts.err)
	}
	if averages.err != nil {
		return nil, fmt.Errorf("dashboard: medias por materia: %w", averages.err)
	}
	if insights.err != nil {
		return nil, fmt.Errorf("dashboard: insights recientes: %w", insights.err)
	}

	out := &dto.DashboardResponse{
		EscolaID:          schoolID,
		AnoLetivo:         schoolYear,
		Docentes:          counts.counts.Teachers,
		Turmas:            counts.counts.Classes,
		Materias:          counts.counts.Subjects,
		Alunos:            counts.counts.Students,
		AlunosComCondicao: counts.counts.StudentsWithConditions,
		InsightsRecentes:  insights.total,
		MediasPorMateria:  make([]dto.SubjectAverageResponse, 0, len(averages.averages)),
	}
	for _, a := range averages.averages {
		out.MediasPorMateria = append(out.MediasPorMateria, dto.SubjectAverageResponse{
			MateriaID: a.SubjectID,
			Nome:      a.SubjectName,
			Media:     a.Average.Round(2),
			Notas:     a.Grades,
		})
	}
	return out, nil
}

package ports

import (
	"context"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
)

// ReportPDFGenerator genera el reporte PDF con la ficha del alumno y sus insights.
type ReportPDFGenerator interface {
	GenerateStudentReport(ctx context.Context, record *dto.StudentFullDataResponse, insights []dto.InsightResponse) ([]byte, error)
}

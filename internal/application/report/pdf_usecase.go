package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/ports"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// RecordSource ficha consolidada e historial de insights de un alumno, ya filtrados por alcance.
type RecordSource interface {
	FullData(ctx context.Context, actor domain.Actor, studentID string) (*dto.StudentFullDataResponse, error)
}

// InsightSource historial de insights del alumno.
type InsightSource interface {
	History(ctx context.Context, actor domain.Actor, studentID string) ([]dto.InsightResponse, error)
}

// PDFUseCase genera el reporte PDF del alumno.
type PDFUseCase struct {
	records   RecordSource
	insights  InsightSource
	generator ports.ReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(records RecordSource, insights InsightSource, generator ports.ReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{records: records, insights: insights, generator: generator}
}

// StudentReport arma la ficha, agrega los insights y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el alumno no existe.
//   - domain.ErrForbidden       si el alumno es de otra escuela.
func (uc *PDFUseCase) StudentReport(ctx context.Context, actor domain.Actor, studentID string) (pdfBytes []byte, filename string, err error) {
	record, err := uc.records.FullData(ctx, actor, studentID)
	if err != nil {
		return nil, "", err
	}
	insights, err := uc.insights.History(ctx, actor, studentID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener insights: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateStudentReport(ctx, record, insights)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("relatorio_%s.pdf", fileSafe(record.Aluno.Matricula))
	return pdfBytes, filename, nil
}

func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "aluno"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Límites de las notas bimestrales.
const (
	BimesterMin = 1
	BimesterMax = 4
)

var (
	GradeMin = decimal.Zero
	GradeMax = decimal.NewFromInt(10)
)

// BimonthlyGrade nota de un alumno en una materia para un bimestre del año lectivo.
// (StudentID, SubjectID, SchoolYear, Bimester) es único.
type BimonthlyGrade struct {
	ID         string
	StudentID  string
	SubjectID  string
	SchoolYear int
	Bimester   int
	Grade      decimal.Decimal
	UpdatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Valid verifica rango de bimestre y nota.
func (g *BimonthlyGrade) Valid() bool {
	if g.Bimester < BimesterMin || g.Bimester > BimesterMax {
		return false
	}
	return !g.Grade.LessThan(GradeMin) && !g.Grade.GreaterThan(GradeMax)
}

package entity

import "time"

// Rango de las escalas socioemocionales.
const (
	EvaluationScaleMin = 1
	EvaluationScaleMax = 5
)

// Evaluation evaluación socioemocional de un alumno (escalas 1–5).
type Evaluation struct {
	ID          string
	StudentID   string
	ProfessorID string
	Date        time.Time
	Attention   int
	Interaction int
	Autonomy    int
	Behavior    int
	Comment     string
	CreatedAt   time.Time
}

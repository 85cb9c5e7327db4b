package entity

import "time"

// Insight narrativa generada por IA sobre el progreso de un alumno.
type Insight struct {
	ID        string
	StudentID string
	AuthorID  string
	Prompt    string
	Content   string
	Provider  string
	CreatedAt time.Time
}

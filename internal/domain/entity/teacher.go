package entity

import (
	"time"

	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// Estados de cuenta de un docente.
const (
	TeacherStatusActive   = "active"
	TeacherStatusInactive = "inactive"
)

// Teacher representa un docente con acceso al sistema (administrador, supervisor o profesor).
// Registro es el identificador de login.
type Teacher struct {
	ID           string
	SchoolID     string
	Name         string
	Registro     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano
	Role         domain.Role
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor convierte el docente en la identidad que ejecuta operaciones.
func (t *Teacher) Actor() domain.Actor {
	return domain.Actor{UserID: t.ID, SchoolID: t.SchoolID, Role: t.Role, Name: t.Name}
}

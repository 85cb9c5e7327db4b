package domain

// Actor identidad autenticada que ejecuta una operación (extraída del JWT ya verificado).
type Actor struct {
	UserID   string
	SchoolID string
	Role     Role
	Name     string
}

// IsAdmin indica si el actor puede operar sobre cualquier escuela.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdministrador
}

// CanAccessSchool indica si el actor puede leer o escribir datos de la escuela dada.
func (a Actor) CanAccessSchool(schoolID string) bool {
	if a.IsAdmin() {
		return true
	}
	return schoolID != "" && schoolID == a.SchoolID
}

// EffectiveSchool resuelve la escuela de una escritura: los no administradores quedan fijados a la suya.
func (a Actor) EffectiveSchool(requested string) string {
	if a.IsAdmin() {
		return requested
	}
	return a.SchoolID
}

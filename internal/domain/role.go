package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role cargo de un docente. Conjunto cerrado: cualquier otro valor es rechazado en la frontera
// (claims del JWT, respuestas de login, DTOs) en lugar de compararse como string libre.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleSupervisor    Role = "Supervisor"
	RoleProfessor     Role = "Professor"
)

// AllRoles devuelve los cargos en orden de privilegio descendente.
func AllRoles() []Role {
	return []Role{RoleAdministrador, RoleSupervisor, RoleProfessor}
}

// ParseRole valida un cargo. Ignora mayúsculas y espacios alrededor.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range AllRoles() {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Valid indica si r es exactamente uno de los cargos del conjunto. Una variante en
// minúsculas no es válida: hay que pasarla por ParseRole.
func (r Role) Valid() bool {
	return r.In(AllRoles()...)
}

// UnmarshalJSON acepta solo cargos conocidos y los deja en su forma canónica.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// In indica si r está en la lista dada.
func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

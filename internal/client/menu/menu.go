// Package menu entradas de navegación y los cargos que las ven.
package menu

import "github.com/jhoicas/cognitiva-api/internal/domain"

// Entry una opción del menú. Roles vacío = visible para cualquier usuario autenticado.
type Entry struct {
	Key   string
	Label string
	Roles []domain.Role
}

// Allows indica si role puede ver la entrada.
func (e Entry) Allows(role domain.Role) bool {
	return len(e.Roles) == 0 || role.In(e.Roles...)
}

var (
	adminOnly = []domain.Role{domain.RoleAdministrador}
	managers  = []domain.Role{domain.RoleAdministrador, domain.RoleSupervisor}
)

// Entries menú completo en orden de presentación.
var Entries = []Entry{
	{Key: "dashboard", Label: "Início"},
	{Key: "escolas", Label: "Escolas", Roles: adminOnly},
	{Key: "docentes", Label: "Docentes", Roles: managers},
	{Key: "turmas", Label: "Turmas", Roles: managers},
	{Key: "materias", Label: "Matérias", Roles: managers},
	{Key: "alunos", Label: "Alunos"},
	{Key: "condicoes", Label: "Condições", Roles: managers},
	{Key: "atividades", Label: "Atividades"},
	{Key: "notas", Label: "Notas bimestrais"},
	{Key: "observacoes", Label: "Observações"},
	{Key: "avaliacoes", Label: "Avaliações"},
	{Key: "insights", Label: "Insights de IA"},
}

// For entradas visibles para role. Un cargo inválido no ve nada.
func For(role domain.Role) []Entry {
	if !role.Valid() {
		return nil
	}
	out := make([]Entry, 0, len(Entries))
	for _, e := range Entries {
		if e.Allows(role) {
			out = append(out, e)
		}
	}
	return out
}

// Find busca una entrada por clave.
func Find(key string) (Entry, bool) {
	for _, e := range Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Package gate decide si una vista puede mostrarse según la sesión y el cargo.
// La decisión es solo de presentación: el servidor vuelve a autorizar cada petición.
package gate

import (
	"errors"

	"github.com/jhoicas/cognitiva-api/internal/client/api"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// Decision resultado de Check.
type Decision int

const (
	// Wait la sesión aún se está restaurando: no mostrar ni redirigir.
	Wait Decision = iota
	RedirectLanding
	RedirectUnauthorized
	Render
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case RedirectLanding:
		return "redirect-landing"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	case Render:
		return "render"
	}
	return "unknown"
}

// ErrNotAuthenticated vista protegida sin sesión.
var ErrNotAuthenticated = errors.New("Faça login para continuar.")

// SessionView lo que el gate necesita de la sesión.
type SessionView interface {
	Snapshot() session.Snapshot
}

// Gate autorización de vistas.
type Gate struct {
	sess SessionView
	nav  session.Navigator
}

// New construye el gate. nav puede ser nil si nadie consume las redirecciones.
func New(sess SessionView, nav session.Navigator) *Gate {
	return &Gate{sess: sess, nav: nav}
}

// Check sin lista de cargos basta con estar autenticado.
func (g *Gate) Check(allowed ...domain.Role) Decision {
	snap := g.sess.Snapshot()
	switch {
	case snap.Loading:
		return Wait
	case !snap.Authenticated:
		return RedirectLanding
	case len(allowed) > 0 && !snap.User.Role.In(allowed...):
		return RedirectUnauthorized
	}
	return Render
}

// Guard ejecuta view solo si la decisión es Render. Las redirecciones ocurren antes y
// la vista no llega a ejecutarse.
func (g *Gate) Guard(view func() error, allowed ...domain.Role) (Decision, error) {
	d := g.Check(allowed...)
	switch d {
	case Render:
		return d, view()
	case RedirectLanding:
		g.navigate(session.RouteLanding)
		return d, ErrNotAuthenticated
	case RedirectUnauthorized:
		g.navigate(session.RouteUnauthorized)
		return d, api.ErrForbidden
	}
	return d, nil
}

func (g *Gate) navigate(route string) {
	if g.nav != nil {
		g.nav.Navigate(route)
	}
}

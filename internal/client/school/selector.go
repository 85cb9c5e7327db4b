// Package school mantiene la escuela seleccionada junto a la sesión.
// Solo un Administrador puede cambiarla; el resto queda fijado a su propia escuela.
package school

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

var (
	ErrSelectionLocked = errors.New("Apenas administradores podem trocar de escola.")
	ErrUnknownSchool   = errors.New("Escola não encontrada.")
)

// PathSchools listado de escuelas.
const PathSchools = "/api/escolas"

// Getter GET JSON contra la API (api.Client).
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Selector selección de escuela. Seguro para uso concurrente.
type Selector struct {
	client Getter

	mu      sync.RWMutex
	current string
	schools []dto.SchoolResponse
	locked  bool
	userID  string

	subMu  sync.Mutex
	subs   map[int]func(id string, ok bool)
	nextID int
}

// New crea un selector sin selección.
func New(client Getter) *Selector {
	return &Selector{client: client, subs: make(map[int]func(string, bool))}
}

// OnLogin fija la selección inicial del usuario. Administrador: pide la lista y elige su escuela
// si está en ella, si no la primera, si no ninguna. Resto: su escuela, sin petición.
func (s *Selector) OnLogin(ctx context.Context, user session.User) error {
	if user.Role != domain.RoleAdministrador {
		s.mu.Lock()
		s.current, s.schools, s.locked, s.userID = user.SchoolID, nil, true, user.ID
		s.mu.Unlock()
		s.notify()
		return nil
	}

	var list []dto.SchoolResponse
	if err := s.client.Get(ctx, PathSchools, nil, &list); err != nil {
		s.mu.Lock()
		s.current, s.schools, s.locked, s.userID = "", nil, false, user.ID
		s.mu.Unlock()
		s.notify()
		return err
	}
	selected := ""
	for _, sc := range list {
		if sc.ID == user.SchoolID {
			selected = sc.ID
			break
		}
	}
	if selected == "" && len(list) > 0 {
		selected = list[0].ID
	}
	s.mu.Lock()
	s.current, s.schools, s.locked, s.userID = selected, list, false, user.ID
	s.mu.Unlock()
	s.notify()
	return nil
}

// Reset limpia la selección (logout).
func (s *Selector) Reset() {
	s.mu.Lock()
	s.current, s.schools, s.locked, s.userID = "", nil, false, ""
	s.mu.Unlock()
	s.notify()
}

// Bind sigue los cambios de sesión: un login nuevo recalcula la selección, un logout la limpia.
// Los errores de la carga inicial se entregan a onErr (puede ser nil).
func (s *Selector) Bind(ctx context.Context, store *session.Store, onErr func(error)) (unsubscribe func()) {
	return store.Subscribe(func(snap session.Snapshot) {
		if !snap.Authenticated {
			s.mu.RLock()
			had := s.userID != ""
			s.mu.RUnlock()
			if had {
				s.Reset()
			}
			return
		}
		s.mu.RLock()
		same := s.userID == snap.User.ID
		s.mu.RUnlock()
		if same {
			return
		}
		if err := s.OnLogin(ctx, snap.User); err != nil && onErr != nil {
			onErr(err)
		}
	})
}

// Current escuela seleccionada; ok=false si no hay.
func (s *Selector) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != ""
}

// Schools lista cargada para el Administrador.
func (s *Selector) Schools() []dto.SchoolResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dto.SchoolResponse(nil), s.schools...)
}

// Locked indica que la selección no puede cambiarse.
func (s *Selector) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

// Set cambia la escuela. Solo Administrador y solo a una escuela de la lista.
func (s *Selector) Set(id string) error {
	s.mu.Lock()
	if s.locked {
		s.mu.Unlock()
		return ErrSelectionLocked
	}
	found := false
	for _, sc := range s.schools {
		if sc.ID == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return ErrUnknownSchool
	}
	changed := s.current != id
	s.current = id
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return nil
}

// Subscribe fn recibe cada cambio de selección.
func (s *Selector) Subscribe(fn func(id string, ok bool)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Selector) notify() {
	id, ok := s.Current()
	s.subMu.Lock()
	fns := make([]func(string, bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(id, ok)
	}
}

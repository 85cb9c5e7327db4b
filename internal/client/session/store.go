// Package session guarda la sesión del cliente: token, usuario y la escuela seleccionada.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/pkg/jwt"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

// Claves en el almacenamiento durable. No se persiste nada más.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Rutas a las que navega el cliente.
const (
	RouteLanding      = "/"
	RouteUnauthorized = "/unauthorized"
)

// ErrEmptyToken login sin token.
var ErrEmptyToken = errors.New("sesión: token vacío")

// User datos del usuario autenticado.
type User struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"roleName"`
	SchoolID string      `json:"schoolId"`
}

// UserFromLogin convierte el usuario de la respuesta de login. El cargo vacío se admite:
// Login lo completa desde el token.
func UserFromLogin(u dto.UserSummary) (User, error) {
	out := User{ID: u.ID, Name: u.Nome, SchoolID: u.EscolaID}
	if u.Cargo != "" {
		role, err := domain.ParseRole(u.Cargo)
		if err != nil {
			return User{}, err
		}
		out.Role = role
	}
	return out, nil
}

// Snapshot estado de la sesión en un instante.
type Snapshot struct {
	Loading       bool
	Authenticated bool
	Token         string
	User          User
}

// Navigator cambia de vista. La consola lo implementa imprimiendo, los tests registrando.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapta una función a Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Store servicio de sesión. Seguro para uso concurrente.
type Store struct {
	storage Storage
	nav     Navigator
	log     *logger.Logger

	mu      sync.RWMutex
	loading bool
	token   string
	user    *User

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// Option configura el Store.
type Option func(*Store)

// WithLogger registra restauraciones fallidas y errores del almacenamiento.
func WithLogger(l *logger.Logger) Option { return func(s *Store) { s.log = l } }

// New crea el Store en estado "cargando" hasta que se llame Restore.
func New(storage Storage, nav Navigator, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		nav:     nav,
		log:     logger.Nop(),
		loading: true,
		subs:    make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore hidrata la sesión desde el almacenamiento. Entradas corruptas se borran y la
// sesión queda sin autenticar; nunca falla.
func (s *Store) Restore() {
	token, user, ok := s.readStored()
	s.mu.Lock()
	if ok {
		s.token, s.user = token, &user
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store) readStored() (string, User, bool) {
	token, hasToken, errT := s.storage.Get(KeyToken)
	rawUser, hasUser, errU := s.storage.Get(KeyUser)
	if errT != nil || errU != nil {
		s.log.Warn().AnErr("token_err", errT).AnErr("user_err", errU).Msg("sesión: almacenamiento ilegible")
		s.discard()
		return "", User{}, false
	}
	if !hasToken && !hasUser {
		return "", User{}, false
	}
	var user User
	if !hasToken || !hasUser || token == "" || json.Unmarshal([]byte(rawUser), &user) != nil || !user.Role.Valid() {
		s.log.Warn().Msg("sesión: entradas incompletas o corruptas, se descartan")
		s.discard()
		return "", User{}, false
	}
	return token, user, true
}

func (s *Store) discard() {
	if err := s.storage.Delete(KeyToken, KeyUser); err != nil {
		s.log.Warn().Err(err).Msg("sesión: borrar entradas")
	}
}

// Login guarda token y usuario juntos, primero en el almacenamiento y luego en memoria.
// Nombre y cargo ausentes se completan con los claims del token (sin verificar firma).
func (s *Store) Login(token string, user User) error {
	if token == "" {
		return ErrEmptyToken
	}
	if user.Name == "" || user.Role == "" || user.ID == "" || user.SchoolID == "" {
		if id, err := jwt.DecodeUnverified(token); err == nil {
			fillFromClaims(&user, id)
		}
	}
	role, err := domain.ParseRole(string(user.Role))
	if err != nil {
		return fmt.Errorf("sesión: %w", err)
	}
	user.Role = role
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(map[string]string{KeyToken: token, KeyUser: string(rawUser)}); err != nil {
		return fmt.Errorf("sesión: guardar: %w", err)
	}
	s.mu.Lock()
	s.token, s.user = token, &user
	s.loading = false
	s.mu.Unlock()
	s.notify()
	return nil
}

func fillFromClaims(u *User, id jwt.Identity) {
	if u.ID == "" {
		u.ID = id.UserID
	}
	if u.Name == "" {
		u.Name = id.Name
	}
	if u.SchoolID == "" {
		u.SchoolID = id.SchoolID
	}
	if u.Role == "" {
		if role, err := domain.ParseRole(id.Role); err == nil {
			u.Role = role
		}
	}
}

// Logout borra la sesión y navega a la portada.
func (s *Store) Logout() error {
	err := s.storage.Delete(KeyToken, KeyUser)
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()
	s.notify()
	if s.nav != nil {
		s.nav.Navigate(RouteLanding)
	}
	if err != nil {
		return fmt.Errorf("sesión: borrar: %w", err)
	}
	return nil
}

// Token token vigente ("" sin sesión).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User usuario vigente.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsLoadingAuth verdadero hasta que termina Restore.
func (s *Store) IsLoadingAuth() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated hay token y usuario.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Snapshot copia del estado actual.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Loading: s.loading, Token: s.token}
	if s.user != nil {
		snap.Authenticated = s.token != ""
		snap.User = *s.user
	}
	return snap
}

// Navigator navegador inyectado (puede ser nil).
func (s *Store) Navigator() Navigator { return s.nav }

// Subscribe registra fn para cada cambio de sesión. Devuelve la función para desuscribirse.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
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

func (s *Store) notify() {
	snap := s.Snapshot()
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

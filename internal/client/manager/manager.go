// Package manager patrón de listado con alcance por escuela: LIST / CREATE / DETAIL sobre un
// recurso REST, con refetch después de cada mutación y cancelación al desmontar la vista.
package manager

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

// State vista activa del manager.
type State int

const (
	StateList State = iota
	StateCreate
	StateDetail
)

func (s State) String() string {
	switch s {
	case StateList:
		return "list"
	case StateCreate:
		return "create"
	case StateDetail:
		return "detail"
	}
	return "unknown"
}

// QueryViewingSchool parámetro de alcance que entiende el servidor.
const QueryViewingSchool = "viewingSchoolId"

var (
	// ErrNoSchool no hay escuela seleccionada: la vista muestra "sin datos" y no pide nada.
	ErrNoSchool = errors.New("Nenhuma escola selecionada.")
	// ErrNotFound el id no está en la lista cargada.
	ErrNotFound = errors.New("Registro não encontrado.")
	// ErrNotMounted operación que requiere Mount.
	ErrNotMounted = errors.New("manager: vista no montada")
)

// RequiredFieldsError campos obligatorios vacíos; se detecta antes de enviar.
type RequiredFieldsError struct {
	Fields []string
}

func (e *RequiredFieldsError) Error() string {
	return "Preencha os campos obrigatórios: " + strings.Join(e.Fields, ", ") + "."
}

// API operaciones REST que usa el manager (api.Client).
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

// SchoolSource escuela seleccionada (school.Selector).
type SchoolSource interface {
	Current() (string, bool)
	Subscribe(fn func(id string, ok bool)) (unsubscribe func())
}

// SessionSource usuario de la sesión (session.Store).
type SessionSource interface {
	User() (session.User, bool)
	Subscribe(fn func(session.Snapshot)) (unsubscribe func())
}

// Confirmer pide confirmación antes de borrar.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Form cuerpo JSON de alta o edición, con los nombres de campo de la API.
type Form map[string]any

// Deps colaboradores comunes a todos los managers.
type Deps struct {
	API     API
	Schools SchoolSource
	Session SessionSource
	Confirm Confirmer
	Log     *logger.Logger
}

// Manager estado de una vista de recurso. Seguro para uso concurrente.
type Manager[T any] struct {
	res  Resource[T]
	deps Deps
	log  *logger.Logger

	mu       sync.Mutex
	state    State
	items    []T
	selected *T
	lastErr  error
	params   url.Values
	gen      uint64
	viewCtx  context.Context
	cancel   context.CancelFunc
	unsubs   []func()
	onChange []func()
}

// New crea el manager en estado LIST, sin montar.
func New[T any](res Resource[T], deps Deps) *Manager[T] {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Manager[T]{res: res, deps: deps, log: log.Named("manager." + res.Name), params: url.Values{}}
}

// Resource descriptor del recurso.
func (m *Manager[T]) Resource() Resource[T] { return m.res }

// Mount carga la lista y se suscribe a cambios de escuela y de sesión. Las respuestas que
// lleguen después de Unmount se descartan.
func (m *Manager[T]) Mount(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return m.Refresh(ctx)
	}
	m.viewCtx, m.cancel = context.WithCancel(ctx)
	if m.deps.Schools != nil && m.res.SchoolScoped {
		m.unsubs = append(m.unsubs, m.deps.Schools.Subscribe(func(string, bool) { m.refetchOnChange() }))
	}
	if m.deps.Session != nil {
		m.unsubs = append(m.unsubs, m.deps.Session.Subscribe(func(session.Snapshot) { m.refetchOnChange() }))
	}
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// Unmount cancela las peticiones en curso y deja de escuchar cambios.
func (m *Manager[T]) Unmount() {
	m.mu.Lock()
	unsubs := m.unsubs
	m.unsubs = nil
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel, m.viewCtx = nil, nil
	m.gen++
	m.state, m.selected = StateList, nil
	m.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}

// OnChange registra fn para cada cambio de lista o de estado.
func (m *Manager[T]) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

func (m *Manager[T]) refetchOnChange() {
	m.mu.Lock()
	ctx := m.viewCtx
	m.mu.Unlock()
	if ctx == nil {
		return
	}
	if err := m.Refresh(ctx); err != nil && !errors.Is(err, ErrNoSchool) && !errors.Is(err, context.Canceled) {
		m.log.Warn().Err(err).Msg("refetch")
	}
}

// SetParam fija un filtro de servidor (ej. turmaId). "" lo quita. No refresca.
func (m *Manager[T]) SetParam(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		m.params.Del(key)
		return
	}
	m.params.Set(key, value)
}

// Refresh vuelve a pedir la lista. Sin escuela seleccionada deja la lista vacía y no pide nada.
func (m *Manager[T]) Refresh(ctx context.Context) error {
	query, err := m.query()
	if err != nil {
		m.mu.Lock()
		m.items, m.lastErr = nil, err
		m.gen++
		m.mu.Unlock()
		m.changed()
		return err
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	reqCtx, stop := m.requestContext(ctx)
	m.mu.Unlock()
	defer stop()

	var list []T
	err = m.deps.API.Get(reqCtx, m.res.listPath(), query, &list)

	m.mu.Lock()
	if gen != m.gen || (m.viewCtx != nil && m.viewCtx.Err() != nil) {
		// respuesta de una carga anterior o de una vista ya desmontada
		m.mu.Unlock()
		if err != nil {
			return err
		}
		return context.Canceled
	}
	if err != nil {
		m.lastErr = err
		m.mu.Unlock()
		m.changed()
		return err
	}
	if list == nil {
		list = []T{}
	}
	m.items, m.lastErr = list, nil
	m.mu.Unlock()
	m.changed()
	return nil
}

// requestContext deriva el contexto de la petición del de la vista. Debe llamarse con mu tomado.
func (m *Manager[T]) requestContext(ctx context.Context) (context.Context, func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	if m.viewCtx == nil {
		return reqCtx, cancel
	}
	stopAfter := context.AfterFunc(m.viewCtx, cancel)
	return reqCtx, func() {
		stopAfter()
		cancel()
	}
}

func (m *Manager[T]) query() (url.Values, error) {
	m.mu.Lock()
	q := url.Values{}
	for k, v := range m.params {
		q[k] = append([]string(nil), v...)
	}
	m.mu.Unlock()
	if m.res.SchoolScoped {
		id, ok := m.currentSchool()
		if !ok {
			return nil, ErrNoSchool
		}
		q.Set(QueryViewingSchool, id)
	}
	return q, nil
}

func (m *Manager[T]) currentSchool() (string, bool) {
	if m.deps.Schools == nil {
		return "", false
	}
	return m.deps.Schools.Current()
}

// Items lista cargada (copia).
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...)
}

// Err último error de carga (ErrNoSchool incluido).
func (m *Manager[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// State vista actual.
func (m *Manager[T]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Selected registro abierto en DETAIL.
func (m *Manager[T]) Selected() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		var zero T
		return zero, false
	}
	return *m.selected, true
}

// Filter texto libre (sin acentos ni mayúsculas) más filtros por predicado sobre la lista cargada.
func (m *Manager[T]) Filter(text string, preds ...func(T) bool) []T {
	items := m.Items()
	needle := Fold(text)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if needle != "" && m.res.Text != nil && !strings.Contains(Fold(m.res.Text(it)), needle) {
			continue
		}
		keep := true
		for _, p := range preds {
			if !p(it) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, it)
		}
	}
	return out
}

// OpenCreate pasa a CREATE.
func (m *Manager[T]) OpenCreate() {
	m.mu.Lock()
	m.state, m.selected = StateCreate, nil
	m.mu.Unlock()
	m.changed()
}

// OpenDetail pasa a DETAIL con un registro de la lista.
func (m *Manager[T]) OpenDetail(id string) error {
	m.mu.Lock()
	for i := range m.items {
		if m.res.ID(m.items[i]) == id {
			item := m.items[i]
			m.state, m.selected = StateDetail, &item
			m.mu.Unlock()
			m.changed()
			return nil
		}
	}
	m.mu.Unlock()
	return ErrNotFound
}

// Back vuelve a LIST y recarga.
func (m *Manager[T]) Back(ctx context.Context) error {
	m.mu.Lock()
	m.state, m.selected = StateList, nil
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// LockedFields campos que el usuario no puede editar (dueño forzado a sí mismo).
func (m *Manager[T]) LockedFields() []string {
	if m.ownerForced() {
		return []string{m.res.OwnerField}
	}
	return nil
}

func (m *Manager[T]) ownerForced() bool {
	if m.res.OwnerField == "" || m.deps.Session == nil {
		return false
	}
	user, ok := m.deps.Session.User()
	return ok && user.Role.In(m.res.OwnerRoles...)
}

// Submit crea (CREATE) o actualiza (DETAIL). Valida obligatorios antes de enviar; los errores
// del servidor se devuelven tal cual. Con éxito vuelve a LIST y recarga.
func (m *Manager[T]) Submit(ctx context.Context, form Form) (T, error) {
	var zero T
	m.mu.Lock()
	state, selected := m.state, m.selected
	m.mu.Unlock()
	if state == StateList {
		return zero, fmt.Errorf("manager: submit fuera de CREATE/DETAIL")
	}

	body := make(Form, len(form)+2)
	for k, v := range form {
		body[k] = v
	}
	if m.ownerForced() {
		user, _ := m.deps.Session.User()
		body[m.res.OwnerField] = user.ID
	}
	if state == StateCreate && m.res.SchoolScoped && m.res.SchoolField != "" && isEmpty(body[m.res.SchoolField]) {
		id, ok := m.currentSchool()
		if !ok {
			return zero, ErrNoSchool
		}
		body[m.res.SchoolField] = id
	}
	if missing := m.missing(body); len(missing) > 0 {
		return zero, &RequiredFieldsError{Fields: missing}
	}

	reqCtx, stop := m.lockedRequestContext(ctx)
	defer stop()
	var out T
	var err error
	if state == StateCreate {
		err = m.deps.API.Post(reqCtx, m.res.Path, body, &out)
	} else {
		err = m.deps.API.Put(reqCtx, m.res.Path+"/"+url.PathEscape(m.res.ID(*selected)), body, &out)
	}
	if err != nil {
		return zero, err
	}
	m.mu.Lock()
	m.state, m.selected = StateList, nil
	m.mu.Unlock()
	if err := m.Refresh(ctx); err != nil && !errors.Is(err, ErrNoSchool) {
		return out, err
	}
	return out, nil
}

func (m *Manager[T]) lockedRequestContext(ctx context.Context) (context.Context, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestContext(ctx)
}

func (m *Manager[T]) missing(body Form) []string {
	var out []string
	for _, f := range m.res.Required {
		if isEmpty(body[f]) {
			out = append(out, f)
		}
	}
	return out
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case *string:
		return x == nil || strings.TrimSpace(*x) == ""
	}
	return false
}

// Delete pide confirmación; si se rechaza no hay petición. Devuelve si se borró.
func (m *Manager[T]) Delete(ctx context.Context, id string) (bool, error) {
	prompt := fmt.Sprintf("Excluir %s %s?", m.res.Label(), id)
	if m.deps.Confirm == nil || !m.deps.Confirm.Confirm(prompt) {
		return false, nil
	}
	reqCtx, stop := m.lockedRequestContext(ctx)
	defer stop()
	if err := m.deps.API.Delete(reqCtx, m.res.Path+"/"+url.PathEscape(id)); err != nil {
		return false, err
	}
	m.mu.Lock()
	if m.selected != nil && m.res.ID(*m.selected) == id {
		m.state, m.selected = StateList, nil
	}
	m.mu.Unlock()
	if err := m.Refresh(ctx); err != nil && !errors.Is(err, ErrNoSchool) {
		return true, err
	}
	return true, nil
}

func (m *Manager[T]) changed() {
	m.mu.Lock()
	fns := append([]func(){}, m.onChange...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

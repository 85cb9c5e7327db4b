// Package insight flujo de insight de IA para un alumno: cargar la ficha, mostrar el JSON
// que verá el modelo y pedir la generación al servidor. Sin reintentos automáticos.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
)

var (
	ErrRecordNotLoaded    = errors.New("Carregue os dados do aluno antes de gerar o insight.")
	ErrGenerationInFlight = errors.New("Já existe uma geração em andamento.")
	ErrEmptyPrompt        = errors.New("Escreva uma instrução para a IA.")
	// ErrStaleResult la ficha cambió mientras se generaba; el texto se descarta.
	ErrStaleResult = errors.New("Os dados do aluno mudaram durante a geração; o resultado foi descartado.")
)

// API lo que el requester necesita del cliente REST.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, in, out any) error
}

// Requester estado del flujo para un alumno. Seguro para uso concurrente.
type Requester struct {
	api      API
	inFlight atomic.Bool

	mu        sync.Mutex
	epoch     uint64 // sube con cada Load
	studentID string
	raw       string
	record    *dto.StudentFullDataResponse
	narrative string
	lastErr   error
}

// New crea el requester sin ficha cargada.
func New(api API) *Requester {
	return &Requester{api: api}
}

// Load pide la ficha completa del alumno. Reemplaza la ficha y el resultado anteriores.
func (r *Requester) Load(ctx context.Context, studentID string) error {
	raw, err := r.api.GetRaw(ctx, "/api/alunos/"+url.PathEscape(studentID)+"/full-data", nil)
	if err != nil {
		return err
	}
	var record dto.StudentFullDataResponse
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("insight: ficha inválida: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		return fmt.Errorf("insight: ficha inválida: %w", err)
	}
	r.mu.Lock()
	r.epoch++
	r.studentID, r.raw, r.record = studentID, indented.String(), &record
	r.narrative, r.lastErr = "", nil
	r.mu.Unlock()
	return nil
}

// RawJSON documento indentado tal como llegó del servidor.
func (r *Requester) RawJSON() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.raw, r.record != nil
}

// Record ficha decodificada.
func (r *Requester) Record() (*dto.StudentFullDataResponse, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record, r.record != nil
}

// InFlight hay una generación en curso.
func (r *Requester) InFlight() bool { return r.inFlight.Load() }

// Generate pide el insight. Una segunda llamada mientras otra corre falla sin hacer petición.
// El error del servidor queda disponible en LastError y se puede reintentar a mano.
// Si otra ficha se carga mientras corre, el resultado no se guarda y se devuelve ErrStaleResult.
func (r *Requester) Generate(ctx context.Context, prompt string) (*dto.InsightResponse, error) {
	r.mu.Lock()
	studentID, epoch, loaded := r.studentID, r.epoch, r.record != nil
	r.mu.Unlock()
	if !loaded {
		return nil, ErrRecordNotLoaded
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrGenerationInFlight
	}
	defer r.inFlight.Store(false)

	var out dto.InsightResponse
	err := r.api.Post(ctx, "/api/insights/aluno/"+url.PathEscape(studentID), dto.GenerateInsightRequest{Prompt: prompt}, &out)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return nil, ErrStaleResult
	}
	if err != nil {
		r.lastErr = err
		return nil, err
	}
	r.narrative, r.lastErr = out.Conteudo, nil
	return &out, nil
}

// Narrative último texto generado.
func (r *Requester) Narrative() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.narrative
}

// LastError error de la última generación (nil si tuvo éxito).
func (r *Requester) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// History insights anteriores del alumno cargado, más recientes primero.
func (r *Requester) History(ctx context.Context) ([]dto.InsightResponse, error) {
	r.mu.Lock()
	studentID, loaded := r.studentID, r.record != nil
	r.mu.Unlock()
	if !loaded {
		return nil, ErrRecordNotLoaded
	}
	var out []dto.InsightResponse
	if err := r.api.Get(ctx, "/api/insights/aluno/"+url.PathEscape(studentID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

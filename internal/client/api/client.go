// Package api cliente REST de la API de Cognitiva.
// Cada petición lleva el token vigente de la sesión como Bearer; el cliente no valida el token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

// DefaultTimeout cubre la generación de insights (el servidor corta el LLM a los 30 s).
const DefaultTimeout = 45 * time.Second

// TokenSource entrega el token de la sesión actual ("" si no hay sesión).
type TokenSource interface {
	Token() string
}

// Client cliente HTTP de la API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el http.Client (tests con httptest).
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger registra cada petición en nivel debug.
func WithLogger(l *logger.Logger) Option { return func(c *Client) { c.log = l } }

// New construye el cliente. tokens puede ser nil (solo login).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login POST /api/login. Un 401 es siempre ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, registro, senha string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	status, body, err := c.send(ctx, http.MethodPost, "/api/login", nil, dto.LoginRequest{Registro: registro, Senha: senha}, false)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status >= 400 {
		return nil, decodeError(status, body, false)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("login: respuesta inválida: %w", err)
	}
	if out.Token == "" {
		return nil, ErrInvalidCredentials
	}
	return &out, nil
}

// Get GET path?query y decodifica el JSON en out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// GetRaw GET y devuelve el cuerpo sin decodificar.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	status, body, err := c.send(ctx, http.MethodGet, path, query, nil, true)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, decodeError(status, body, c.authenticated())
	}
	return body, nil
}

// Post POST con cuerpo JSON.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

// Put PUT con cuerpo JSON.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

// Delete DELETE sin cuerpo.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	status, body, err := c.send(ctx, method, path, query, in, true)
	if err != nil {
		return err
	}
	if status >= 400 {
		return decodeError(status, body, c.authenticated())
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: respuesta inválida: %w", method, path, err)
	}
	return nil
}

func (c *Client) authenticated() bool {
	return c.tokens != nil && c.tokens.Token() != ""
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any, withToken bool) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api: sin conexión")
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("api")
	return resp.StatusCode, body, nil
}

// decodeError arma el *APIError. En llamadas autenticadas 401/403 significan sesión expirada.
func decodeError(status int, body []byte, authenticated bool) error {
	e := &APIError{Status: status}
	var payload dto.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		e.Code, e.Message = payload.Code, payload.Message
	} else if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		e.Message = text
	} else {
		e.Message = http.StatusText(status)
	}
	if authenticated && isAuthStatus(status) {
		e.kind = ErrSessionExpired
	}
	return e
}

// IsSessionExpired atajo para errors.Is(err, ErrSessionExpired).
func IsSessionExpired(err error) bool { return errors.Is(err, ErrSessionExpired) }

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores que el cliente muestra al usuario tal cual.
var (
	ErrInvalidCredentials = errors.New("Falha ao autenticar. Verifique registro e senha.")
	ErrSessionExpired     = errors.New("Sessão expirada. Faça login novamente.")
	ErrForbidden          = errors.New("Você não tem permissão para acessar esta página.")
	ErrUnreachable        = errors.New("Não foi possível conectar ao servidor.")
)

// APIError respuesta de error del servidor. Message es el texto del servidor sin cambios.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.kind != nil {
		return e.kind.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("erro HTTP %d", e.Status)
}

// Unwrap permite errors.Is(err, ErrSessionExpired) sobre respuestas 401/403.
func (e *APIError) Unwrap() error { return e.kind }

// ServerMessage mensaje del servidor, aun cuando Error() muestre el de la taxonomía.
func (e *APIError) ServerMessage() string { return e.Message }

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

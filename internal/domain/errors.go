package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrRegistroAlreadyUsed  = errors.New("el registro ya está en uso")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInvalidRole          = errors.New("cargo inválido")
	ErrGenerationInProgress = errors.New("ya hay una generación de insight en curso para este alumno")
	ErrAIUnavailable        = errors.New("servicio de IA no configurado")
)

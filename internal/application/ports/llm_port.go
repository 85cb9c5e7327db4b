package ports

import "context"

// LLMService puerto de salida hacia el proveedor de IA que redacta los insights.
// Cualquier adaptador (Gemini, Anthropic, mock) implementa este contrato; la aplicación
// no conoce la implementación concreta.
type LLMService interface {
	// GenerateInsight redacta una narrativa a partir de la instrucción del docente y de la
	// ficha del alumno serializada en JSON. El contexto debe llevar timeout.
	GenerateInsight(ctx context.Context, instruction string, record []byte) (string, error)

	// Name identifica al proveedor ("gemini", "anthropic") para auditoría.
	Name() string
}

package ports

import "context"

// GenerationLock exclusión por clave entre instancias del servidor.
// Cada adquisición devuelve un token propio: Unlock con un token que ya no es el dueño
// (el lock venció y otro lo tomó) no libera nada.
type GenerationLock interface {
	// TryLock devuelve ok false, sin error, si otra generación ya tiene la clave.
	TryLock(ctx context.Context, key string) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cognitiva-api/internal/application/ports"
)

var _ ports.GenerationLock = (*MemoryLock)(nil)

type heldLock struct {
	token   string
	expires time.Time
}

// MemoryLock GenerationLock de un solo proceso, usado cuando no hay Redis configurado.
type MemoryLock struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	held map[string]heldLock
}

// NewMemoryLock construye el lock. ttl <= 0 usa DefaultLockTTL.
func NewMemoryLock(ttl time.Duration) *MemoryLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &MemoryLock{ttl: ttl, now: time.Now, held: make(map[string]heldLock)}
}

func (l *MemoryLock) TryLock(_ context.Context, key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if h, ok := l.held[key]; ok && now.Before(h.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[key] = heldLock{token: token, expires: now.Add(l.ttl)}
	return token, true, nil
}

// Unlock libera la clave solo si token es el de la adquisición vigente.
func (l *MemoryLock) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h, ok := l.held[key]; ok && h.token == token {
		delete(l.held, key)
	}
	return nil
}

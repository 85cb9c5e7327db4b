package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cognitiva-api/internal/application/ports"
)

var _ ports.GenerationLock = (*RedisLock)(nil)

// DefaultLockTTL vence el lock si el proceso que lo tomó muere antes de liberarlo.
// Supera el timeout de la llamada al LLM.
const DefaultLockTTL = 45 * time.Second

// unlockScript borra la clave solo si sigue siendo nuestra.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// lockClient lo que RedisLock usa de go-redis; *redis.Client lo cumple.
type lockClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisLock GenerationLock compartido entre instancias (SET NX PX).
type RedisLock struct {
	client lockClient
	prefix string
	ttl    time.Duration
}

// NewRedisLock construye el lock. ttl <= 0 usa DefaultLockTTL.
func NewRedisLock(client lockClient, prefix string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisLock{client: client, prefix: prefix, ttl: ttl}
}

// TryLock intenta tomar la clave con un token nuevo. false sin error si ya está tomada.
func (l *RedisLock) TryLock(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock borra la clave solo si en Redis sigue guardado token.
func (l *RedisLock) Unlock(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	if err := unlockScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("redis unlock: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis SET NX PX y el script de unlock sobre un mapa con vencimiento.
type fakeRedis struct {
	mu      sync.Mutex
	now     time.Time
	values  map[string]string
	expires map[string]time.Time
	evals   int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		now:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (f *fakeRedis) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func (f *fakeRedis) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getLocked(key)
}

func (f *fakeRedis) getLocked(key string) (string, bool) {
	v, ok := f.values[key]
	if ok && !f.now.Before(f.expires[key]) {
		delete(f.values, key)
		delete(f.expires, key)
		return "", false
	}
	return v, ok
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.getLocked(key); ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.expires[key] = f.now.Add(ttl)
	return redis.NewBoolResult(true, nil)
}

// compareAndDelete lo que hace unlockScript.
func (f *fakeRedis) compareAndDelete(keys []string, args []interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals++
	if v, ok := f.getLocked(keys[0]); ok && v == args[0] {
		delete(f.values, keys[0])
		delete(f.expires, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args)
}

func (f *fakeRedis) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.Eval(ctx, script, keys, args...)
}

func (f *fakeRedis) EvalShaRO(ctx context.Context, sha string, keys []string, args ...interface{}) *redis.Cmd {
	return f.EvalSha(ctx, sha, keys, args...)
}

func (f *fakeRedis) ScriptExists(context.Context, ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult([]bool{true}, nil)
}

func (f *fakeRedis) ScriptLoad(context.Context, string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func TestRedisLock_TokenPorAdquisicion(t *testing.T) {
	rdb := newFakeRedis()
	l := NewRedisLock(rdb, "cognitiva:lock:", time.Minute)
	ctx := context.Background()

	tok, ok, err := l.TryLock(ctx, "insight:a")
	require.NoError(t, err)
	require.True(t, ok)
	stored, _ := rdb.get("cognitiva:lock:insight:a")
	assert.Equal(t, tok, stored)

	_, ok, err = l.TryLock(ctx, "insight:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, "insight:a", tok))
	_, held := rdb.get("cognitiva:lock:insight:a")
	assert.False(t, held)
}

func TestRedisLock_UnlockVencidoNoBorraAlNuevoDueno(t *testing.T) {
	rdb := newFakeRedis()
	first := NewRedisLock(rdb, "p:", time.Second)
	second := NewRedisLock(rdb, "p:", time.Second)
	ctx := context.Background()

	tokA, ok, err := first.TryLock(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	rdb.advance(2 * time.Second)
	tokB, ok, err := second.TryLock(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok, "el lock vencido se retoma")

	require.NoError(t, first.Unlock(ctx, "k", tokA))
	stored, held := rdb.get("p:k")
	require.True(t, held, "el unlock tardío no borra la clave ajena")
	assert.Equal(t, tokB, stored)

	require.NoError(t, second.Unlock(ctx, "k", tokB))
	_, held = rdb.get("p:k")
	assert.False(t, held)
	assert.Equal(t, 2, rdb.evals)
}

func TestRedisLock_UnlockSinTokenNoLlamaARedis(t *testing.T) {
	rdb := newFakeRedis()
	l := NewRedisLock(rdb, "p:", time.Minute)
	require.NoError(t, l.Unlock(context.Background(), "k", ""))
	assert.Zero(t, rdb.evals)
}

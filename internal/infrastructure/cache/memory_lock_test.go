package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLock_SegundoIntentoRechazado(t *testing.T) {
	l := NewMemoryLock(time.Minute)
	ctx := context.Background()

	tokA, ok, err := l.TryLock(ctx, "insight:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, tokA)

	_, ok, err = l.TryLock(ctx, "insight:a")
	require.NoError(t, err)
	assert.False(t, ok, "la clave ya está tomada")

	_, ok, err = l.TryLock(ctx, "insight:b")
	require.NoError(t, err)
	assert.True(t, ok, "otra clave es independiente")

	require.NoError(t, l.Unlock(ctx, "insight:a", tokA))
	_, ok, err = l.TryLock(ctx, "insight:a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLock_VenceTrasTTL(t *testing.T) {
	l := NewMemoryLock(time.Second)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, ok, _ := l.TryLock(context.Background(), "k")
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = l.TryLock(context.Background(), "k")
	assert.True(t, ok, "un lock vencido se puede retomar")
}

// Quien tomó el lock y lo perdió por vencimiento no libera la adquisición siguiente.
func TestMemoryLock_UnlockVencidoNoLiberaAlNuevoDueno(t *testing.T) {
	l := NewMemoryLock(time.Second)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	first, ok, _ := l.TryLock(ctx, "k")
	require.True(t, ok)
	now = now.Add(2 * time.Second)
	second, ok, _ := l.TryLock(ctx, "k")
	require.True(t, ok)
	require.NotEqual(t, first, second)

	require.NoError(t, l.Unlock(ctx, "k", first))
	_, ok, _ = l.TryLock(ctx, "k")
	assert.False(t, ok, "la segunda generación sigue teniendo la clave")

	require.NoError(t, l.Unlock(ctx, "k", second))
	_, ok, _ = l.TryLock(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryLock_ConcurrenciaUnSoloGanador(t *testing.T) {
	l := NewMemoryLock(time.Minute)
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := l.TryLock(context.Background(), "same"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetNX(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("lk")

	ok, err := c.SetNX(ctx, "ABC123", "v1", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "ABC123", "v2", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := c.Get(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
}

func TestMemory_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	_, err := c.CompareAndSwap(ctx, "missing", "a", "b")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "a", 0))

	ok, err := c.CompareAndSwap(ctx, "k", "stale", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.CompareAndSwap(ctx, "k", "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	v, _ := c.Get(ctx, "k")
	assert.Equal(t, "b", v)
}

func TestMemory_CompareAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("lk")

	_, err := c.CompareAndDelete(ctx, "missing", "a")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "a", 0))

	ok, err := c.CompareAndDelete(ctx, "k", "stale")
	require.NoError(t, err)
	assert.False(t, ok)
	exists, _ := c.Exists(ctx, "k")
	assert.True(t, exists)

	ok, err = c.CompareAndDelete(ctx, "k", "a")
	require.NoError(t, err)
	assert.True(t, ok)
	exists, _ = c.Exists(ctx, "k")
	assert.False(t, exists)
}

func TestMemory_CompareAndSwapSingleWinner(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	require.NoError(t, c.Set(ctx, "k", "0", 0))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.CompareAndSwap(ctx, "k", "0", "1")
			if err == nil && ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemory_KeysAreUnprefixedAndSorted(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("lk")
	for _, k := range []string{"venom", "ABC123", "zeta"} {
		require.NoError(t, c.Set(ctx, k, "x", 0))
	}
	// key ajena al prefijo
	c.c.Set("other:foo", "x", 0)

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "venom", "zeta"}, keys)
}

func TestMemory_DeleteAndStats(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Driver)
	assert.EqualValues(t, 1, st.Misses)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "etcd"})
	assert.EqualError(t, err, "cache: unknown driver etcd")

	c, err := New(Config{})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
}

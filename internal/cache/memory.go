package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache.
// Útil para desarrollo, testing y despliegues de un solo proceso.
type memoryClient struct {
	prefix string
	c      *gocache.Cache
	// mu serializa las escrituras para que CompareAndSwap sea atómico frente a Set/Delete.
	mu     sync.Mutex
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string) *memoryClient {
	return &memoryClient{
		prefix: prefix,
		c:      gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (c *memoryClient) key(k string) string { return prefixed(c.prefix, k) }

func goTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func (c *memoryClient) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.c.Get(c.key(key))
	if !ok {
		c.misses.Add(1)
		return "", ErrNotFound
	}
	c.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (c *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Set(c.key(key), value, goTTL(ttl))
	return nil
}

func (c *memoryClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Add falla si la key existe y no expiró.
	if err := c.c.Add(c.key(key), value, goTTL(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *memoryClient) CompareAndSwap(ctx context.Context, key, old, new string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	v, exp, ok := c.c.GetWithExpiration(k)
	if !ok {
		return false, ErrNotFound
	}
	if cur, _ := v.(string); cur != old {
		return false, nil
	}
	ttl := gocache.NoExpiration
	if !exp.IsZero() {
		ttl = time.Until(exp)
	}
	c.c.Set(k, new, ttl)
	return true, nil
}

func (c *memoryClient) CompareAndDelete(ctx context.Context, key, old string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	v, ok := c.c.Get(k)
	if !ok {
		return false, ErrNotFound
	}
	if cur, _ := v.(string); cur != old {
		return false, nil
	}
	c.c.Delete(k)
	return true, nil
}

func (c *memoryClient) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Delete(c.key(key))
	return nil
}

func (c *memoryClient) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.c.Get(c.key(key))
	return ok, nil
}

func (c *memoryClient) Keys(ctx context.Context) ([]string, error) {
	items := c.c.Items() // sólo no expiradas
	out := make([]string, 0, len(items))
	for k := range items {
		if uk, ok := unprefixed(c.prefix, k); ok {
			out = append(out, uk)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *memoryClient) Ping(ctx context.Context) error {
	return nil
}

func (c *memoryClient) Close() error {
	c.c.Flush()
	return nil
}

func (c *memoryClient) Stats(ctx context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(c.c.ItemCount()),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}, nil
}

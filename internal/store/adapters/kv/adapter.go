// Package kv implementa LicenseKeyRepository sobre un cache.Client (memory o redis).
// Cada record se guarda como JSON bajo "<prefix>:<key>".
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/keycheck/internal/cache"
	"github.com/dropDatabas3/keycheck/internal/domain/repository"
	"github.com/dropDatabas3/keycheck/internal/domain/types"
	store "github.com/dropDatabas3/keycheck/internal/store"
)

func init() {
	store.RegisterAdapter(&kvAdapter{driver: "memory"})
	store.RegisterAdapter(&kvAdapter{driver: "redis"})
}

// DefaultPrefix namespace usado cuando la config no define uno.
const DefaultPrefix = "license"

type kvAdapter struct{ driver string }

func (a *kvAdapter) Name() string { return a.driver }

func (a *kvAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (repository.LicenseKeyRepository, error) {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	c, err := cache.New(cache.Config{
		Driver:      a.driver,
		URL:         cfg.RedisURL,
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		Prefix:      prefix,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("kv: connect %s: %w", a.driver, err)
	}
	return New(c, a.driver), nil
}

// Repository implementa repository.LicenseKeyRepository.
type Repository struct {
	c      cache.Client
	driver string
}

// New envuelve un cache.Client ya abierto.
func New(c cache.Client, driver string) *Repository {
	return &Repository{c: c, driver: driver}
}

var _ repository.LicenseKeyRepository = (*Repository)(nil)

func (r *Repository) Driver() string { return r.driver }

func (r *Repository) Get(ctx context.Context, key string) (*types.KeyRecord, error) {
	raw, err := r.c.Get(ctx, key)
	if cache.IsNotFound(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec, err := decode(key, raw)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) List(ctx context.Context) ([]types.KeyRecord, error) {
	keys, err := r.c.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.KeyRecord, 0, len(keys))
	for _, k := range keys {
		raw, err := r.c.Get(ctx, k)
		if cache.IsNotFound(err) {
			// borrada entre SCAN y GET
			continue
		}
		if err != nil {
			return nil, err
		}
		rec, err := decode(k, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, rec types.KeyRecord) error {
	if err := validKey(rec.Key); err != nil {
		return err
	}
	raw, err := encode(rec)
	if err != nil {
		return err
	}
	ok, err := r.c.SetNX(ctx, rec.Key, raw, 0)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrConflict
	}
	return nil
}

// Update compara contra el valor decodificado (no contra bytes re-serializados),
// así payloads equivalentes escritos por otro proceso no provocan falsos conflictos.
func (r *Repository) Update(ctx context.Context, prev, next types.KeyRecord) error {
	if prev.Key != next.Key {
		return fmt.Errorf("%w: key mismatch", repository.ErrInvalidInput)
	}
	raw, err := r.c.Get(ctx, prev.Key)
	if cache.IsNotFound(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	cur, err := decode(prev.Key, raw)
	if err != nil {
		return err
	}
	if !cur.Equal(prev) {
		return repository.ErrPreconditionFailed
	}
	nextRaw, err := encode(next)
	if err != nil {
		return err
	}
	ok, err := r.c.CompareAndSwap(ctx, prev.Key, raw, nextRaw)
	if cache.IsNotFound(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrPreconditionFailed
	}
	return nil
}

func (r *Repository) Put(ctx context.Context, rec types.KeyRecord) error {
	if err := validKey(rec.Key); err != nil {
		return err
	}
	raw, err := encode(rec)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, rec.Key, raw, 0)
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.c.Delete(ctx, key)
}

// DeleteIf compara contra el valor decodificado, igual que Update.
func (r *Repository) DeleteIf(ctx context.Context, prev types.KeyRecord) error {
	raw, err := r.c.Get(ctx, prev.Key)
	if cache.IsNotFound(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	cur, err := decode(prev.Key, raw)
	if err != nil {
		return err
	}
	if !cur.Equal(prev) {
		return repository.ErrPreconditionFailed
	}
	ok, err := r.c.CompareAndDelete(ctx, prev.Key, raw)
	if cache.IsNotFound(err) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrPreconditionFailed
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error { return r.c.Ping(ctx) }

func (r *Repository) Close() error { return r.c.Close() }

// Stats expone las estadísticas del cache subyacente.
func (r *Repository) Stats(ctx context.Context) (cache.Stats, error) { return r.c.Stats(ctx) }

func validKey(k string) error {
	if strings.TrimSpace(k) == "" {
		return fmt.Errorf("%w: empty key", repository.ErrInvalidInput)
	}
	return nil
}

func encode(rec types.KeyRecord) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decode(key, raw string) (types.KeyRecord, error) {
	var rec types.KeyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return types.KeyRecord{}, errors.Join(repository.ErrMalformedRecord, fmt.Errorf("key %q: %w", key, err))
	}
	// el record puede omitir "key"; la key del storage manda
	rec.Key = key
	return rec, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/keycheck/internal/domain/repository"
	"github.com/dropDatabas3/keycheck/internal/domain/types"
)

// Config selecciona y configura el backend de license keys.
type Config struct {
	Driver  string // memory | redis | postgres
	Prefix  string
	Timeout time.Duration // por operación; 0 = sin límite

	Redis struct {
		URL      string
		Addr     string
		Password string
		DB       int
	}
	Postgres struct {
		DSN         string
		MaxConns    int
		MinConns    int
		AutoMigrate bool
	}
}

// NormalizeDriver traduce los alias usados históricamente en config al nombre del adapter.
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", "memory", "mem", "inmemory":
		return "memory"
	case "postgres", "pg", "postgresql":
		return "postgres"
	case "redis", "rediss", "upstash":
		return "redis"
	default:
		return strings.ToLower(strings.TrimSpace(d))
	}
}

// Open abre el repositorio del driver configurado.
// Los adapters deben estar registrados (import _ ".../store/adapters/dal").
func Open(ctx context.Context, cfg Config) (repository.LicenseKeyRepository, error) {
	acfg := AdapterConfig{
		Name:          NormalizeDriver(cfg.Driver),
		Prefix:        cfg.Prefix,
		RedisURL:      cfg.Redis.URL,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		DSN:           cfg.Postgres.DSN,
		MaxConns:      cfg.Postgres.MaxConns,
		MinConns:      cfg.Postgres.MinConns,
		AutoMigrate:   cfg.Postgres.AutoMigrate,
		DialTimeout:   cfg.Timeout,
	}
	repo, err := OpenAdapter(ctx, acfg)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		repo = WithTimeout(repo, cfg.Timeout)
	}
	return repo, nil
}

// Seed crea los records que todavía no existen. Los existentes no se tocan.
// Retorna cuántos se crearon.
func Seed(ctx context.Context, repo repository.LicenseKeyRepository, recs []types.KeyRecord) (int, error) {
	created := 0
	for _, rec := range recs {
		err := repo.Create(ctx, rec)
		switch {
		case err == nil:
			created++
		case errors.Is(err, repository.ErrConflict):
		default:
			return created, fmt.Errorf("seed %q: %w", rec.Key, err)
		}
	}
	return created, nil
}

// ─── timeout ───

type timeoutRepo struct {
	inner   repository.LicenseKeyRepository
	timeout time.Duration
}

// WithTimeout limita la duración de cada operación del repositorio.
func WithTimeout(repo repository.LicenseKeyRepository, d time.Duration) repository.LicenseKeyRepository {
	return &timeoutRepo{inner: repo, timeout: d}
}

func (r *timeoutRepo) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, r.timeout)
}

func (r *timeoutRepo) Get(ctx context.Context, key string) (*types.KeyRecord, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.Get(ctx, key)
}

func (r *timeoutRepo) List(ctx context.Context) ([]types.KeyRecord, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.List(ctx)
}

func (r *timeoutRepo) Create(ctx context.Context, rec types.KeyRecord) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.Create(ctx, rec)
}

func (r *timeoutRepo) Update(ctx context.Context, prev, next types.KeyRecord) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.Update(ctx, prev, next)
}

func (r *timeoutRepo) Put(ctx context.Context, rec types.KeyRecord) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.Put(ctx, rec)
}

func (r *timeoutRepo) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.Delete(ctx, key)
}

func (r *timeoutRepo) DeleteIf(ctx context.Context, prev types.KeyRecord) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.DeleteIf(ctx, prev)
}

func (r *timeoutRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.inner.Ping(ctx)
}

func (r *timeoutRepo) Driver() string { return r.inner.Driver() }
func (r *timeoutRepo) Close() error   { return r.inner.Close() }

// Unwrap retorna el repositorio del adapter debajo de los decoradores de este paquete.
func Unwrap(repo repository.LicenseKeyRepository) repository.LicenseKeyRepository {
	for {
		t, ok := repo.(*timeoutRepo)
		if !ok {
			return repo
		}
		repo = t.inner
	}
}

// Package cache provee un cliente key-value de strings con soporte multi-backend.
//
// Soporta:
//   - Memory (in-process, go-cache; para desarrollo/testing)
//   - Redis (distribuido o hosted, para producción)
//
// Los valores son opacos para este paquete; la (de)serialización de records
// vive en internal/store/kv.
package cache

import (
	"context"
	"time"
)

// Client define las operaciones key-value.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL opcional.
	// Si ttl es 0, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX guarda sólo si la key no existe (atómico).
	// Retorna true si se guardó, false si ya existía.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// CompareAndSwap reemplaza old por new sólo si el valor actual es old (atómico).
	// Retorna ErrNotFound si la key no existe y false si el valor cambió.
	CompareAndSwap(ctx context.Context, key, old, new string) (bool, error)

	// CompareAndDelete elimina la key sólo si el valor actual es old (atómico).
	// Retorna ErrNotFound si la key no existe y false si el valor cambió.
	CompareAndDelete(ctx context.Context, key, old string) (bool, error)

	// Delete elimina una key. No falla si no existe.
	Delete(ctx context.Context, key string) error

	// Exists verifica si una key existe.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys lista las keys bajo el prefijo del cliente (sin el prefijo).
	Keys(ctx context.Context) ([]string, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// Stats retorna estadísticas del cache.
	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del cache.
type Stats struct {
	Driver     string
	Keys       int64
	UsedMemory string
	Hits       int64
	Misses     int64
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver      string // "memory" | "redis"
	URL         string // redis://... o rediss://... (tiene prioridad sobre Addr)
	Addr        string // host:port
	Password    string
	DB          int
	Prefix      string // Prefijo para todas las keys
	DialTimeout time.Duration
}

// Errores de cache.
var (
	ErrNotFound = errNotFound{}
)

type errNotFound struct{}

func (e errNotFound) Error() string { return "cache: key not found" }

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	default:
		return nil, errUnknownDriver(cfg.Driver)
	}
}

type errUnknownDriver string

func (e errUnknownDriver) Error() string { return "cache: unknown driver " + string(e) }

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}

func unprefixed(prefix, k string) (string, bool) {
	if prefix == "" {
		return k, true
	}
	p := prefix + ":"
	if len(k) < len(p) || k[:len(p)] != p {
		return "", false
	}
	return k[len(p):], true
}

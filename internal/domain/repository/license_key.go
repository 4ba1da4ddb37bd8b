package repository

import (
	"context"

	"github.com/dropDatabas3/keycheck/internal/domain/types"
)

// LicenseKeyRepository define las operaciones de persistencia sobre license keys.
// El validator sólo necesita get/set/delete; Create y Update agregan atomicidad
// (add-if-absent y compare-and-swap) cuando el backend lo soporta.
type LicenseKeyRepository interface {
	// ─── Lectura ───

	// Get obtiene el record de una key.
	// Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (*types.KeyRecord, error)

	// List devuelve todos los records (debug dump / CLI). Orden por key.
	List(ctx context.Context) ([]types.KeyRecord, error)

	// ─── Escritura ───

	// Create guarda un record nuevo.
	// Retorna ErrConflict si la key ya existe.
	Create(ctx context.Context, rec types.KeyRecord) error

	// Update reemplaza prev por next sólo si el valor almacenado sigue siendo prev.
	// Retorna ErrPreconditionFailed si cambió y ErrNotFound si ya no existe.
	Update(ctx context.Context, prev, next types.KeyRecord) error

	// Put sobreescribe el record completo (idempotente, sin condición).
	Put(ctx context.Context, rec types.KeyRecord) error

	// Delete elimina una key. Borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error

	// DeleteIf elimina la key sólo si el valor almacenado sigue siendo prev.
	// Retorna ErrPreconditionFailed si cambió y ErrNotFound si ya no existe.
	DeleteIf(ctx context.Context, prev types.KeyRecord) error

	// ─── Health ───

	// Ping verifica conexión al backend.
	Ping(ctx context.Context) error

	// Driver devuelve el nombre del backend ("memory", "redis", "postgres").
	Driver() string

	// Close libera recursos.
	Close() error
}

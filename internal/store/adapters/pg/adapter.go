// Package pg implementa LicenseKeyRepository sobre PostgreSQL (tabla license_keys).
// Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keycheck/internal/domain/repository"
	"github.com/dropDatabas3/keycheck/internal/domain/types"
	store "github.com/dropDatabas3/keycheck/internal/store"
	migrations "github.com/dropDatabas3/keycheck/migrations/postgres"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (repository.LicenseKeyRepository, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pg: DSN required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	} else {
		poolCfg.MinConns = 2
	}
	if cfg.DialTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.DialTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	if cfg.AutoMigrate {
		if _, err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return New(pool), nil
}

// Repository implementa repository.LicenseKeyRepository.
type Repository struct {
	pool *pgxpool.Pool
}

// New envuelve un pool ya abierto.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ repository.LicenseKeyRepository = (*Repository)(nil)

func (r *Repository) Driver() string { return "postgres" }

// Pool expone el pool interno (migraciones).
func (r *Repository) Pool() *pgxpool.Pool { return r.pool }

func (r *Repository) Get(ctx context.Context, key string) (*types.KeyRecord, error) {
	const query = `SELECT key, device, expiry FROM license_keys WHERE key = $1`
	rec, err := scanRecord(r.pool.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) List(ctx context.Context) ([]types.KeyRecord, error) {
	const query = `SELECT key, device, expiry FROM license_keys ORDER BY key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.KeyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, rec types.KeyRecord) error {
	if err := validKey(rec.Key); err != nil {
		return err
	}
	const query = `
		INSERT INTO license_keys (key, device, expiry, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (key) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, rec.Key, rec.Device, toPgDate(rec.Expiry))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

// Update es un UPDATE condicional sobre los valores previos (CAS a nivel fila).
func (r *Repository) Update(ctx context.Context, prev, next types.KeyRecord) error {
	if prev.Key != next.Key {
		return fmt.Errorf("%w: key mismatch", repository.ErrInvalidInput)
	}
	const query = `
		UPDATE license_keys
		SET device = $4, expiry = $5, updated_at = NOW()
		WHERE key = $1
		  AND device IS NOT DISTINCT FROM $2::text
		  AND expiry IS NOT DISTINCT FROM $3::date
	`
	tag, err := r.pool.Exec(ctx, query,
		prev.Key, prev.Device, toPgDate(prev.Expiry), next.Device, toPgDate(next.Expiry))
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return r.conditionFailed(ctx, prev.Key)
}

func (r *Repository) Put(ctx context.Context, rec types.KeyRecord) error {
	if err := validKey(rec.Key); err != nil {
		return err
	}
	const query = `
		INSERT INTO license_keys (key, device, expiry, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (key) DO UPDATE SET device = EXCLUDED.device, expiry = EXCLUDED.expiry, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, rec.Key, rec.Device, toPgDate(rec.Expiry))
	return err
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM license_keys WHERE key = $1`, key)
	return err
}

// DeleteIf borra la fila sólo si conserva los valores de prev.
func (r *Repository) DeleteIf(ctx context.Context, prev types.KeyRecord) error {
	const query = `
		DELETE FROM license_keys
		WHERE key = $1
		  AND device IS NOT DISTINCT FROM $2::text
		  AND expiry IS NOT DISTINCT FROM $3::date
	`
	tag, err := r.pool.Exec(ctx, query, prev.Key, prev.Device, toPgDate(prev.Expiry))
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return r.conditionFailed(ctx, prev.Key)
}

func (r *Repository) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

// conditionFailed distingue fila inexistente de fila modificada tras un write condicional sin efecto.
func (r *Repository) conditionFailed(ctx context.Context, key string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM license_keys WHERE key = $1)`, key).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrPreconditionFailed
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// ─── helpers ───

func scanRecord(row pgx.Row) (types.KeyRecord, error) {
	var (
		rec    types.KeyRecord
		device *string
		expiry pgtype.Date
	)
	if err := row.Scan(&rec.Key, &device, &expiry); err != nil {
		return types.KeyRecord{}, err
	}
	rec.Device = device
	if expiry.Valid {
		d := types.DateOf(expiry.Time, time.UTC)
		rec.Expiry = &d
	}
	return rec, nil
}

func toPgDate(d *types.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{
		Time:  time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func validKey(k string) error {
	if strings.TrimSpace(k) == "" {
		return fmt.Errorf("%w: empty key", repository.ErrInvalidInput)
	}
	return nil
}

// ─── migraciones ───

// Migrate aplica los *_up.sql embebidos en orden ascendente.
// Los scripts son idempotentes (IF NOT EXISTS). Retorna los archivos aplicados.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	return applySQL(ctx, pool, "_up.sql", false, 0)
}

// Rollback aplica los *_down.sql en orden inverso. steps <= 0 aplica todos.
func Rollback(ctx context.Context, pool *pgxpool.Pool, steps int) ([]string, error) {
	return applySQL(ctx, pool, "_down.sql", true, steps)
}

func applySQL(ctx context.Context, pool *pgxpool.Pool, suffix string, reverse bool, steps int) ([]string, error) {
	files, err := listSQL(suffix)
	if err != nil {
		return nil, fmt.Errorf("pg: list migrations: %w", err)
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}
	for _, f := range files {
		sql, err := fs.ReadFile(migrations.PostgresFS, f)
		if err != nil {
			return nil, fmt.Errorf("pg: read %s: %w", f, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return nil, fmt.Errorf("pg: exec %s: %w", f, err)
		}
	}
	return files, nil
}

func listSQL(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrations.PostgresFS, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

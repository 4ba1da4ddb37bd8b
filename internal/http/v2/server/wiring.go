// Package server arma el handler HTTP V2 a partir de la config y lo sirve.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/keycheck/internal/config"
	"github.com/dropDatabas3/keycheck/internal/domain/repository"
	"github.com/dropDatabas3/keycheck/internal/http/v2/controllers"
	keyctrl "github.com/dropDatabas3/keycheck/internal/http/v2/controllers/keys"
	"github.com/dropDatabas3/keycheck/internal/http/v2/router"
	"github.com/dropDatabas3/keycheck/internal/http/v2/services"
	"github.com/dropDatabas3/keycheck/internal/http/v2/services/health"
	"github.com/dropDatabas3/keycheck/internal/http/v2/services/keys"
	"github.com/dropDatabas3/keycheck/internal/metrics"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
	"github.com/dropDatabas3/keycheck/internal/store"
	"github.com/dropDatabas3/keycheck/internal/util"

	// Registra los adapters (memory, redis, postgres) via init()
	_ "github.com/dropDatabas3/keycheck/internal/store/adapters/dal"
)

// BuildInfo identifica el binario en /readyz y en los logs.
type BuildInfo struct {
	Version string
	Commit  string
}

// App es el resultado del wiring: handler listo más lo que hay que cerrar.
type App struct {
	Handler http.Handler
	Repo    repository.LicenseKeyRepository
	Metrics *metrics.Metrics
}

// Close libera el backend de keys.
func (a *App) Close() error {
	if a == nil || a.Repo == nil {
		return nil
	}
	return a.Repo.Close()
}

// poolProvider lo implementa el repositorio postgres.
type poolProvider interface {
	Pool() *pgxpool.Pool
}

// Build conecta el store, carga el seed y arma services, controllers y router.
func Build(ctx context.Context, cfg *config.Config, info BuildInfo) (*App, error) {
	log := logger.From(ctx).With(logger.Layer("server"), logger.Op("Build"))

	repo, err := store.Open(ctx, storeConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Info("store connected", logger.Driver(repo.Driver()), logger.String("target", storeTarget(cfg, repo.Driver())))

	if seed := cfg.SeedRecords(); len(seed) > 0 {
		n, err := store.Seed(ctx, repo, seed)
		if err != nil {
			_ = repo.Close()
			return nil, err
		}
		log.Info("seed applied", logger.Count(n), logger.Int("configured", len(seed)))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		if m, err = metrics.New(nil); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
		if pp, ok := store.Unwrap(repo).(poolProvider); ok {
			if err := m.RegisterPool(pp.Pool); err != nil {
				_ = repo.Close()
				return nil, fmt.Errorf("metrics: %w", err)
			}
		}
	}

	keyDeps := keys.Deps{
		Repo:                repo,
		Location:            cfg.Location(),
		DeleteExpiredOnRead: cfg.Keys.DeleteExpiredOnRead,
	}
	if m != nil {
		keyDeps.Recorder = m
	}

	svcs := services.New(services.Deps{
		Keys: keyDeps,
		Health: health.Deps{
			StoreCheck:  repo.Ping,
			StoreDriver: repo.Driver(),
			Version:     info.Version,
			Commit:      info.Commit,
		},
	})
	ctrls := controllers.New(svcs, controllers.Options{
		Keys: keyctrl.Options{DebugDump: cfg.Keys.DebugDump},
	})

	handler := router.New(router.Deps{
		Controllers: ctrls,
		Metrics:     m,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	})

	return &App{Handler: handler, Repo: repo, Metrics: m}, nil
}

func storeConfig(cfg *config.Config) store.Config {
	sc := store.Config{
		Driver:  cfg.Store.Driver,
		Prefix:  cfg.Store.Prefix,
		Timeout: cfg.Store.Timeout,
	}
	sc.Redis.URL = cfg.Store.Redis.URL
	sc.Redis.Addr = cfg.Store.Redis.Addr
	sc.Redis.Password = cfg.Store.Redis.Password
	sc.Redis.DB = cfg.Store.Redis.DB
	sc.Postgres.DSN = cfg.Store.Postgres.DSN
	sc.Postgres.MaxConns = cfg.Store.Postgres.MaxConns
	sc.Postgres.MinConns = cfg.Store.Postgres.MinConns
	sc.Postgres.AutoMigrate = cfg.Store.Postgres.AutoMigrate
	return sc
}

// storeTarget describe a dónde se conectó el store, sin credenciales.
func storeTarget(cfg *config.Config, driver string) string {
	switch driver {
	case "redis":
		if cfg.Store.Redis.URL != "" {
			return util.RedactURL(cfg.Store.Redis.URL)
		}
		return cfg.Store.Redis.Addr
	case "postgres":
		return util.RedactURL(cfg.Store.Postgres.DSN)
	default:
		return "in-process"
	}
}

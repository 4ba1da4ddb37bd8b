package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/keycheck/internal/config"
	"github.com/dropDatabas3/keycheck/internal/http/v2/server"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
)

// Seteados con -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = ""
)

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "Path to YAML config (opcional)")
	flag.Parse()

	// .env es opcional; las variables del sistema tienen prioridad
	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.ServiceName,
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()
	if envErr != nil {
		log.Debug("no .env file loaded", logger.Err(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.Build(ctx, cfg, server.BuildInfo{Version: version, Commit: commit})
	if err != nil {
		log.Error("wiring failed", logger.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("store close failed", logger.Err(err))
		}
	}()

	log.Info("keycheck ready",
		logger.String("addr", cfg.Server.Addr),
		logger.Driver(cfg.Store.Driver),
		logger.Bool("metrics", cfg.Metrics.Enabled),
		logger.Bool("debug_dump", cfg.Keys.DebugDump),
	)

	err = server.ListenAndServe(ctx, cfg.Server.Addr, app.Handler, server.ServeOptions{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		log.Error("server failed", logger.Err(err))
		stop()
		_ = app.Close()
		os.Exit(1)
	}
	log.Info("keycheck stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

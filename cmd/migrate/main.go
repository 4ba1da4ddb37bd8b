package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/keycheck/internal/config"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
	pgstore "github.com/dropDatabas3/keycheck/internal/store/adapters/pg"
)

func main() {
	var (
		configPath = flag.String("config", "configs/config.yaml", "Path to YAML config (opcional)")
		dsn        = flag.String("dsn", "", "Postgres DSN (default: store.postgres.dsn / DATABASE_URL)")
		timeout    = flag.Duration("timeout", 30*time.Second, "Timeout total")
	)
	flag.Parse()
	_ = godotenv.Load()

	// Positional args: [up|down] [steps]
	action := "up"
	steps := 0
	args := flag.Args()
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			fatalf("invalid steps %q", args[1])
		}
		steps = n
	}

	logger.Init(logger.Config{Env: "dev", Level: "info", ServiceName: "keycheck-migrate"})
	log := logger.Named("migrate")

	target := *dsn
	if target == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fatalf("config: %v", err)
		}
		target = cfg.Store.Postgres.DSN
	}
	if target == "" {
		fatalf("missing DSN: use -dsn, DATABASE_URL or store.postgres.dsn")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, target)
	if err != nil {
		fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	var applied []string
	switch action {
	case "up":
		applied, err = pgstore.Migrate(ctx, pool)
	case "down":
		if steps == 0 {
			steps = 1
		}
		applied, err = pgstore.Rollback(ctx, pool, steps)
	default:
		fatalf("unknown action %q. Use: up | down [steps]", action)
	}
	if err != nil {
		fatalf("%s: %v", action, err)
	}

	if len(applied) == 0 {
		log.Info("nothing to do", logger.String("action", action))
		return
	}
	for _, f := range applied {
		log.Info("migration applied", logger.String("file", f))
	}
	log.Info("migrations completed", logger.String("action", action), logger.Count(len(applied)))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

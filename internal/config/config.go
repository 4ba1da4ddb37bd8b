// Package config carga la configuración del servicio: YAML opcional,
// overrides por variables de entorno, defaults y validación.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zonas de keys.timezone sin depender del sistema

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/keycheck/internal/domain/types"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
	"github.com/dropDatabas3/keycheck/internal/store"
)

type Config struct {
	App struct {
		// dev | staging | prod | test
		Env         string `yaml:"env"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Store struct {
		Driver  string        `yaml:"driver"` // memory | redis | postgres
		Prefix  string        `yaml:"prefix"`
		Timeout time.Duration `yaml:"timeout"` // por operación
		Redis   struct {
			URL      string `yaml:"url"` // redis:// o rediss://; tiene prioridad sobre addr
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Postgres struct {
			DSN         string `yaml:"dsn"`
			MaxConns    int    `yaml:"max_conns"`
			MinConns    int    `yaml:"min_conns"`
			AutoMigrate bool   `yaml:"auto_migrate"`
		} `yaml:"postgres"`
	} `yaml:"store"`

	Keys struct {
		Timezone            string       `yaml:"timezone"`
		DeleteExpiredOnRead bool         `yaml:"delete_expired_on_read"`
		DebugDump           bool         `yaml:"debug_dump"`
		Seed                []SeedRecord `yaml:"seed"`
	} `yaml:"keys"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// SeedRecord es un record cargado al arrancar si todavía no existe.
type SeedRecord struct {
	Key    string      `yaml:"key"`
	Device string      `yaml:"device"` // vacío = sin bindear
	Expiry *types.Date `yaml:"expiry"`
}

// DemoSeed son los records de demo del store en memoria.
func DemoSeed() []SeedRecord {
	venomExpiry := types.Date{Year: 2027, Month: time.January, Day: 1}
	return []SeedRecord{
		{Key: "ABC123"},
		{Key: "venom", Device: "18db7457294f554f", Expiry: &venomExpiry},
	}
}

// Load lee path (si existe), aplica env, defaults y valida.
// path vacío o inexistente arranca de una config vacía.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.ServiceName == "" {
		c.App.ServiceName = "keycheck"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	c.Store.Driver = store.NormalizeDriver(c.Store.Driver)
	if c.Store.Prefix == "" {
		c.Store.Prefix = "license"
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = 3 * time.Second
	}
	if c.Keys.Timezone == "" {
		c.Keys.Timezone = "UTC"
	}
	// seed: [] explícito deshabilita la demo
	if c.Keys.Seed == nil && c.Store.Driver == "memory" {
		c.Keys.Seed = DemoSeed()
	}
}

// Validate chequea valores que no se pueden corregir con defaults.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case "memory":
	case "redis":
		if c.Store.Redis.URL == "" && c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.url or store.redis.addr is required for driver redis"))
		}
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, errors.New("store.postgres.dsn (DATABASE_URL) is required for driver postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q not supported (memory|redis|postgres)", c.Store.Driver))
	}

	if c.Store.Timeout < 0 {
		errs = append(errs, errors.New("store.timeout must not be negative"))
	}
	if !logger.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q not supported", c.Log.Level))
	}
	if _, err := time.LoadLocation(c.Keys.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("keys.timezone: %w", err))
	}
	for i, s := range c.Keys.Seed {
		if strings.TrimSpace(s.Key) == "" {
			errs = append(errs, fmt.Errorf("keys.seed[%d]: key is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Location retorna la zona horaria de referencia para expiries.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Keys.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SeedRecords convierte keys.seed a records de dominio.
func (c *Config) SeedRecords() []types.KeyRecord {
	out := make([]types.KeyRecord, 0, len(c.Keys.Seed))
	for _, s := range c.Keys.Seed {
		rec := types.KeyRecord{Key: strings.TrimSpace(s.Key)}
		if dev := strings.TrimSpace(s.Device); dev != "" {
			rec.Device = &dev
		}
		if s.Expiry != nil {
			exp := *s.Expiry
			rec.Expiry = &exp
		}
		out = append(out, rec)
	}
	return out
}

// ─── env ───

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return i, true, nil
}

func getEnvBool(key string) (bool, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, true, nil
}

func getEnvDur(key string) (time.Duration, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, true, nil
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// applyEnvOverrides pisa el YAML con variables de entorno.
// Un valor numérico/bool/duración inválido es error, no se ignora.
func (c *Config) applyEnvOverrides() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := getEnvStr(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		v, ok, err := getEnvInt(key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok, err := getEnvBool(key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = v
		}
	}
	duration := func(key string, dst *time.Duration) {
		v, ok, err := getEnvDur(key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = v
		}
	}

	// APP / LOG
	str("APP_ENV", &c.App.Env)
	c.App.Env = strings.ToLower(c.App.Env)
	str("SERVICE_NAME", &c.App.ServiceName)
	str("LOG_LEVEL", &c.Log.Level)

	// SERVER
	str("SERVER_ADDR", &c.Server.Addr)
	if v, ok := getEnvCSV("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	duration("SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	duration("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)
	duration("SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	// STORE
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_PREFIX", &c.Store.Prefix)
	duration("STORE_TIMEOUT", &c.Store.Timeout)
	str("REDIS_URL", &c.Store.Redis.URL)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	integer("REDIS_DB", &c.Store.Redis.DB)
	str("DATABASE_URL", &c.Store.Postgres.DSN)
	integer("POSTGRES_MAX_CONNS", &c.Store.Postgres.MaxConns)
	integer("POSTGRES_MIN_CONNS", &c.Store.Postgres.MinConns)
	boolean("POSTGRES_AUTO_MIGRATE", &c.Store.Postgres.AutoMigrate)

	// KEYS
	str("KEYS_TIMEZONE", &c.Keys.Timezone)
	boolean("KEYS_DELETE_EXPIRED_ON_READ", &c.Keys.DeleteExpiredOnRead)
	boolean("KEYS_DEBUG_DUMP", &c.Keys.DebugDump)

	// METRICS
	boolean("METRICS_ENABLED", &c.Metrics.Enabled)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

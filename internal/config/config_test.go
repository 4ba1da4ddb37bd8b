package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "SERVICE_NAME", "LOG_LEVEL", "SERVER_ADDR", "CORS_ALLOWED_ORIGINS",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"STORE_DRIVER", "STORE_PREFIX", "STORE_TIMEOUT",
	"REDIS_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"DATABASE_URL", "POSTGRES_MAX_CONNS", "POSTGRES_MIN_CONNS", "POSTGRES_AUTO_MIGRATE",
	"KEYS_TIMEZONE", "KEYS_DELETE_EXPIRED_ON_READ", "KEYS_DEBUG_DUMP", "METRICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Store.Driver)
	assert.Equal(t, "license", c.Store.Prefix)
	assert.Equal(t, 3*time.Second, c.Store.Timeout)
	assert.Equal(t, "UTC", c.Keys.Timezone)
	assert.False(t, c.Metrics.Enabled)

	recs := c.SeedRecords()
	require.Len(t, recs, 2)
	assert.Equal(t, "ABC123", recs[0].Key)
	assert.Nil(t, recs[0].Device)
	assert.Equal(t, "18db7457294f554f", *recs[1].Device)
	assert.Equal(t, "2027-01-01", recs[1].Expiry.String())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
app:
  env: prod
server:
  addr: ":9000"
  read_timeout: 2s
store:
  driver: redis
  redis:
    addr: "localhost:6379"
keys:
  timezone: America/Argentina/Buenos_Aires
  debug_dump: true
  seed:
    - key: K1
      device: dev-1
      expiry: "2030-05-01"
metrics:
  enabled: true
`)
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "prod", c.App.Env)
	assert.Equal(t, ":9100", c.Server.Addr)
	assert.Equal(t, 2*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "redis", c.Store.Driver)
	assert.Equal(t, 3, c.Store.Redis.DB)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.Server.CORSAllowedOrigins)
	assert.True(t, c.Keys.DebugDump)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, "America/Argentina/Buenos_Aires", c.Location().String())

	recs := c.SeedRecords()
	require.Len(t, recs, 1)
	assert.Equal(t, "dev-1", *recs[0].Device)
	assert.Equal(t, "2030-05-01", recs[0].Expiry.String())
}

func TestLoad_DriverAliasesAreNormalized(t *testing.T) {
	for _, alias := range []string{"mem", "inmemory", " Memory "} {
		t.Run(alias, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORE_DRIVER", alias)
			c, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, "memory", c.Store.Driver)
			assert.Len(t, c.SeedRecords(), 2)
		})
	}

	clearEnv(t)
	t.Setenv("STORE_DRIVER", "pg")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/keys")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", c.Store.Driver)
	assert.Empty(t, c.SeedRecords())
}

func TestLoad_EmptySeedDisablesDemo(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeYAML(t, "keys:\n  seed: []\n"))
	require.NoError(t, err)
	assert.Empty(t, c.SeedRecords())
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_TIMEOUT", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "STORE_TIMEOUT")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "etcd"}, `store.driver "etcd"`},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"redis without addr", map[string]string{"STORE_DRIVER": "redis"}, "store.redis.url"},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "log.level"},
		{"bad timezone", map[string]string{"KEYS_TIMEZONE": "Mars/Olympus"}, "keys.timezone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestValidate_SeedKeyRequired(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeYAML(t, "keys:\n  seed:\n    - device: x\n"))
	assert.ErrorContains(t, err, "keys.seed[0]")
}

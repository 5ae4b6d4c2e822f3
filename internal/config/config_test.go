package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, EnvPrefix+"_") {
			name, _, _ := strings.Cut(kv, "=")
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unknown database driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "shutdown_timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
		{"zero cache", func(c *Config) { c.SRS.CacheSize = 0 }, "cache_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	cfg := DefaultConfig()
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = "postgres://localhost/cross_trainer"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "crosstrainer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/from-file.db
server:
  addr: ":9000"
  shutdown_timeout: 3s
log:
  level: debug
scrambles_dir: /srv/scrambles
`), 0o644))

	t.Setenv("CROSSTRAINER_LOG_FORMAT", "json")
	t.Setenv("CROSSTRAINER_SERVER_ADDR", ":9100")

	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, l.ConfigFileUsed())
	assert.Equal(t, "/tmp/from-file.db", cfg.Database.Path)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/srv/scrambles", cfg.ScramblesDir)
}

func TestLoad_DBEnvAlias(t *testing.T) {
	isolate(t)
	t.Setenv("CROSSTRAINER_DB", "/tmp/alias.db")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/alias.db", cfg.Database.Path)
}

func TestLoad_OverrideWins(t *testing.T) {
	isolate(t)
	t.Setenv("CROSSTRAINER_LOG_LEVEL", "warn")

	l := NewLoader()
	l.Viper().Set("log.level", "error")
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_DefaultConfigDir(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "crosstrainer")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("srs:\n  cache_size: 12\n"), 0o644))

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.SRS.CacheSize)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("CROSSTRAINER_DATABASE_DRIVER", "oracle")
	_, err := NewLoader().Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/crosstrainer/internal/config"
	"github.com/abhisek/crosstrainer/internal/logging"
	"github.com/abhisek/crosstrainer/internal/metrics"
	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/stats"
	"github.com/abhisek/crosstrainer/internal/store"
)

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"db":        "database.path",
	"db-driver": "database.driver",
	"db-dsn":    "database.dsn",
	"scrambles": "scrambles_dir",
	"log-level": "log.level",
}

// env is the configuration, logger and store shared by every command.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	metrics *metrics.Metrics
}

// loadConfig resolves the config from file, environment and the flags of
// cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	loader := config.NewLoader()
	v := loader.Viper()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	if f := cmd.Flags().Lookup("addr"); f != nil {
		if err := v.BindPFlag("server.addr", f); err != nil {
			return config.Config{}, fmt.Errorf("bind flag addr: %w", err)
		}
	}
	configFile, _ := cmd.Flags().GetString("config")
	return loader.Load(configFile)
}

// setup loads the config and opens the store. The caller closes env.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	dsn, err := resolveDSN(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("opened store", "driver", cfg.Database.Driver)

	return &env{cfg: cfg, logger: logger, store: st, metrics: metrics.New()}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// resolveDSN returns the PostgreSQL DSN, or the SQLite path: the
// configured path (--db or CROSSTRAINER_DB) or the default XDG path.
func resolveDSN(db config.DatabaseConfig) (string, error) {
	if db.Driver == store.DriverPostgres {
		return db.DSN, nil
	}
	if db.Path != "" {
		return db.Path, store.EnsureDir(db.Path)
	}
	return store.DefaultDBPath()
}

func (e *env) practiceService() *practice.Service {
	return practice.NewService(e.store.Sessions(), e.store.Attempts(), practice.WithMetrics(e.metrics))
}

func (e *env) srsService() (*srs.Service, error) {
	return srs.NewService(e.store.Solves(), e.store.SRS(),
		srs.WithMetrics(e.metrics),
		srs.WithCacheSize(e.cfg.SRS.CacheSize),
	)
}

func (e *env) statsService() *stats.Service {
	return stats.NewService(e.store.Attempts())
}

func (e *env) scrambleBank() *scramble.Bank {
	return scramble.Load(e.cfg.ScramblesDir, e.logger)
}

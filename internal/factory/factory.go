package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/kmapgame/internal/config"
	"github.com/mcoot/kmapgame/internal/dependencies/clock"
	"github.com/mcoot/kmapgame/internal/dependencies/idgen"
	"github.com/mcoot/kmapgame/internal/dependencies/random"
	"github.com/mcoot/kmapgame/internal/metrics"
	"github.com/mcoot/kmapgame/internal/services/completion"
	"github.com/mcoot/kmapgame/internal/services/daily"
	"github.com/mcoot/kmapgame/internal/services/game"
	"github.com/mcoot/kmapgame/internal/services/puzzle"
	"github.com/mcoot/kmapgame/internal/storage"
	"github.com/mcoot/kmapgame/internal/storage/memory"
	redisstorage "github.com/mcoot/kmapgame/internal/storage/redis"
	"github.com/mcoot/kmapgame/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQL    = config.StorageSQL
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    idgen.Generator

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Services
	Engine         puzzle.Engine
	DailyRegistry  *daily.Registry
	Recorder       *completion.Recorder
	GameController *game.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sql")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required if StorageType is "sql")
	SQLConfig *sqlstore.Config
	// Location is the time zone whose midnight rolls the daily challenge.
	// If nil, UTC is used
	Location *time.Location
	// Guard vets client-supplied sessions (optional)
	// If nil, sessions are trusted as sent
	Guard game.SessionGuard
}

// ConfigFrom translates loaded server configuration into a factory Config
func ConfigFrom(cfg config.Config, logger *slog.Logger) (Config, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Config{}, err
	}

	out := Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		Location:    loc,
	}

	switch cfg.Storage.Type {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		if cfg.Storage.RedisKeyPrefix != "" {
			redisCfg.KeyPrefix = cfg.Storage.RedisKeyPrefix
		}
		out.RedisConfig = &redisCfg
	case StorageTypeSQL:
		sqlCfg := sqlstore.DefaultConfig()
		sqlCfg.Driver = cfg.Storage.SQLDriver
		sqlCfg.DSN = cfg.Storage.SQLDSN
		out.SQLConfig = &sqlCfg
	}

	return out, nil
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	ids := idgen.NewUUIDGenerator()

	return newWithDependencies(store, clk, rnd, ids, reg, cfg.Location, cfg.Guard, logger), nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageTypeSQL:
		if cfg.SQLConfig == nil {
			return nil, errors.New("SQLConfig required when StorageType is sql")
		}
		store, err := sqlstore.Open(ctx, *cfg.SQLConfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sql'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	ids idgen.Generator,
	reg *prometheus.Registry,
	location *time.Location,
	guard game.SessionGuard,
	logger *slog.Logger,
) *App {
	m := metrics.New(reg)

	// Create services
	engine := puzzle.NewKMapEngine(rnd, logger)
	registry := daily.NewRegistry(store, engine, clk, ids, location, m, logger)
	recorder := completion.NewRecorder(store, clk, ids, m, logger)
	controller := game.NewController(store, engine, registry, recorder, guard, clk, m, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		IDs:            ids,
		Registry:       reg,
		Metrics:        m,
		Engine:         engine,
		DailyRegistry:  registry,
		Recorder:       recorder,
		GameController: controller,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/NicolasVillafane/prodeApp/external/footballdata"
	"github.com/NicolasVillafane/prodeApp/internal/config"
	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	"github.com/NicolasVillafane/prodeApp/internal/infrastructure/repository/memory"
	"github.com/NicolasVillafane/prodeApp/internal/infrastructure/repository/postgres"
	"github.com/NicolasVillafane/prodeApp/internal/interfaces/httpapi"
	"github.com/NicolasVillafane/prodeApp/internal/platform/cache"
	idgen "github.com/NicolasVillafane/prodeApp/internal/platform/id"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/NicolasVillafane/prodeApp/internal/platform/resilience"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

// App owns the HTTP server and every connection opened to build it.
type App struct {
	Server  *http.Server
	closers []func() error
}

// Close releases storage and cache connections in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type fixtureProvider interface {
	fixture.Source
	fixture.TeamDirectory
	fixture.Calendar
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	pools, predictions, err := a.openStorage(cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	viewCache, err := a.openViewCache(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	source := newFixtureProvider(cfg, logger)
	ids := idgen.NewUUIDGenerator()

	poolViews := usecase.NewPoolViewService(
		pools,
		predictions,
		usecase.NewMatchdayResolver(source, logger),
		usecase.NewPredictionCorrelator(predictions, cfg.PredictionLookupWorkers),
		usecase.NewPointsAwarder(predictions, cfg.PointsPerCorrectPrediction, cfg.AwardWorkers, logger),
		viewCache,
		usecase.PoolViewConfig{CacheTTL: cfg.ViewCacheTTL, BuildTimeout: cfg.ViewBuildTimeout},
		logger,
	)

	// Nil unless writes should drop cached views.
	var invalidator usecase.ViewInvalidator
	if cfg.ViewCacheInvalidateOnWrite {
		invalidator = poolViews
	}

	handler := httpapi.NewHandler(
		poolViews,
		usecase.NewPredictionService(pools, predictions, ids, invalidator),
		usecase.NewPoolService(pools, source, ids, invalidator),
		usecase.NewCompetitionService(source, source, source),
		logger,
	)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

func (a *App) openStorage(cfg config.Config, logger *logging.Logger) (pool.Repository, prediction.Repository, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("using in-memory storage", "storage_driver", cfg.StorageDriver)
		return memory.NewPoolRepository(nil), memory.NewPredictionRepository(), nil
	}

	db, err := openDB(cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, db.Close)
	logger.Info("using postgres storage", "db_name", dbNameFromURL(cfg.DBURL))

	return postgres.NewPoolRepository(db), postgres.NewPredictionRepository(db), nil
}

func (a *App) openViewCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.ViewCache, error) {
	if cfg.ViewCacheDriver != config.CacheRedis {
		return cache.NewMemoryViewCache(), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect view cache: %w", err)
	}
	a.closers = append(a.closers, closeRedis(client))
	logger.Info("using redis view cache", "ttl", cfg.ViewCacheTTL.String())

	return cache.NewRedisViewCache(client), nil
}

func closeRedis(client *redis.Client) func() error {
	return func() error {
		if err := client.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
		return nil
	}
}

func newFixtureProvider(cfg config.Config, logger *logging.Logger) fixtureProvider {
	if cfg.CompetitionSource != config.SourceFootballData {
		logger.Warn("serving seeded fixtures", "competition_source", cfg.CompetitionSource)
		return memory.NewFixtureSource(memory.SeedCompetitions(), memory.SeedFixtures())
	}

	return footballdata.NewClient(footballdata.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.FootballDataTimeout},
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailures,
			OpenTimeout:      cfg.FootballDataCircuitOpenAfter,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpen,
		},
		MetadataCache: cache.NewStore(cfg.CompetitionCacheTTL),
	})
}

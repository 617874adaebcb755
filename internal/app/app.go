package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/matchpulse/fixture-sync/external/apifootball"
	"github.com/matchpulse/fixture-sync/external/betika"
	"github.com/matchpulse/fixture-sync/external/footballdata"
	"github.com/matchpulse/fixture-sync/external/sofascore"
	"github.com/matchpulse/fixture-sync/external/sportsdb"
	"github.com/matchpulse/fixture-sync/internal/config"
	"github.com/matchpulse/fixture-sync/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/fixture-sync/internal/interfaces/httpapi"
	"github.com/matchpulse/fixture-sync/internal/platform/cache"
	"github.com/matchpulse/fixture-sync/internal/platform/id"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/pubsub"
	"github.com/matchpulse/fixture-sync/internal/platform/resilience"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/matchpulse/fixture-sync/internal/usecase"
)

// App owns every long-lived component of the service.
type App struct {
	Config     config.Config
	Logger     *logging.Logger
	DB         *sqlx.DB
	Bus        *pubsub.Bus
	Enricher   *usecase.EnrichmentService
	Scheduler  *usecase.Scheduler
	HTTPServer *http.Server
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	repo := postgres.NewFixtureRepository(db)
	bus := pubsub.NewBus(logger)
	upserter := usecase.NewUpsertService(repo, id.NewRandomGenerator(), bus, logger)

	sources := buildSources(cfg, logger)
	headToHeadSources := make(map[string]provider.HeadToHeadSource)
	oddsSources := make(map[string]provider.OddsSource)
	for _, src := range sources {
		if h2h, ok := src.(provider.HeadToHeadSource); ok {
			headToHeadSources[src.Name()] = h2h
		}
		if odds, ok := src.(provider.OddsSource); ok {
			oddsSources[src.Name()] = odds
		}
	}

	enricher, err := usecase.NewEnrichmentService(headToHeadSources, upserter, logger, cfg.EnrichmentWorkers, cfg.EnrichmentLastN)
	if err != nil {
		return nil, fmt.Errorf("build enrichment service: %w", err)
	}

	syncSvc := usecase.NewSyncService(usecase.SyncServiceConfig{
		Sources:    sources,
		Upserter:   upserter,
		Enricher:   enricher,
		Logger:     logger,
		FetchPause: cfg.SyncFetchPause,
		RecordCap:  cfg.SyncRecordCap,
	})
	oddsSvc := usecase.NewOddsService(repo, upserter, oddsSources, logger, cfg.OddsBackfillLimit)
	scheduler := usecase.NewScheduler(syncSvc, oddsSvc, logger, cfg.SyncInterval, cfg.SyncWarmupDelay)

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}
	fixtureSvc := usecase.NewFixtureService(repo, cacheStore, bus, logger)

	handler := httpapi.NewHandler(fixtureSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Bus:        bus,
		Enricher:   enricher,
		Scheduler:  scheduler,
		HTTPServer: server,
	}, nil
}

// Close releases background workers and the database pool. The HTTP
// server is shut down by the caller so it can pick the grace period.
func (a *App) Close() {
	a.Enricher.Close()
	a.Bus.Close()
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("close db", "error", err)
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func buildSources(cfg config.Config, logger *logging.Logger) []provider.Source {
	var sources []provider.Source

	if cfg.APIFootball.Enabled && cfg.APIFootball.MissingToken() {
		logger.Warn("apifootball disabled, APIFOOTBALL_TOKEN not set")
	} else if cfg.APIFootball.Enabled {
		sources = append(sources, apifootball.NewClient(apifootball.ClientConfig{
			BaseURL:        cfg.APIFootball.BaseURL,
			Token:          cfg.APIFootball.Token,
			Timeout:        cfg.APIFootball.Timeout,
			MaxRetries:     cfg.APIFootball.MaxRetries,
			Logger:         logger,
			CircuitBreaker: breakerConfig(cfg.APIFootball),
			LeagueIDs:      cfg.APIFootballLeagueIDs,
			Season:         cfg.APIFootballSeason,
		}))
	}
	if cfg.Sofascore.Enabled {
		sources = append(sources, sofascore.NewClient(sofascore.ClientConfig{
			BaseURL:        cfg.Sofascore.BaseURL,
			Timeout:        cfg.Sofascore.Timeout,
			MaxRetries:     cfg.Sofascore.MaxRetries,
			Logger:         logger,
			CircuitBreaker: breakerConfig(cfg.Sofascore),
		}))
	}
	if cfg.FootballData.Enabled && cfg.FootballData.MissingToken() {
		logger.Warn("footballdata disabled, FOOTBALLDATA_TOKEN not set")
	} else if cfg.FootballData.Enabled {
		sources = append(sources, footballdata.NewClient(footballdata.ClientConfig{
			BaseURL:        cfg.FootballData.BaseURL,
			Token:          cfg.FootballData.Token,
			Timeout:        cfg.FootballData.Timeout,
			MaxRetries:     cfg.FootballData.MaxRetries,
			Logger:         logger,
			CircuitBreaker: breakerConfig(cfg.FootballData),
		}))
	}
	if cfg.SportsDB.Enabled {
		sources = append(sources, sportsdb.NewClient(sportsdb.ClientConfig{
			BaseURL:        cfg.SportsDB.BaseURL,
			Timeout:        cfg.SportsDB.Timeout,
			MaxRetries:     cfg.SportsDB.MaxRetries,
			Logger:         logger,
			CircuitBreaker: breakerConfig(cfg.SportsDB),
		}))
	}
	if cfg.Betika.Enabled {
		sources = append(sources, betika.NewClient(betika.ClientConfig{
			BaseURL:        cfg.Betika.BaseURL,
			Timeout:        cfg.Betika.Timeout,
			MaxRetries:     cfg.Betika.MaxRetries,
			Logger:         logger,
			CircuitBreaker: breakerConfig(cfg.Betika),
		}))
	}

	return sources
}

func breakerConfig(settings config.ProviderSettings) resilience.CircuitBreakerConfig {
	return resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          settings.CircuitEnabled,
		FailureThreshold: settings.CircuitFailureCount,
		OpenTimeout:      settings.CircuitOpenTimeout,
		HalfOpenMaxReq:   settings.CircuitHalfOpenMax,
	})
}

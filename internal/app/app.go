package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/recruitboard/recruitboard/external/cfbd"
	"github.com/recruitboard/recruitboard/internal/config"
	"github.com/recruitboard/recruitboard/internal/domain/recruit"
	"github.com/recruitboard/recruitboard/internal/domain/rerank"
	"github.com/recruitboard/recruitboard/internal/domain/roster"
	"github.com/recruitboard/recruitboard/internal/infrastructure/account/introspect"
	"github.com/recruitboard/recruitboard/internal/infrastructure/repository/memory"
	"github.com/recruitboard/recruitboard/internal/infrastructure/repository/postgres"
	"github.com/recruitboard/recruitboard/internal/interfaces/httpapi"
	"github.com/recruitboard/recruitboard/internal/platform/cache"
	"github.com/recruitboard/recruitboard/internal/platform/export"
	idgen "github.com/recruitboard/recruitboard/internal/platform/id"
	"github.com/recruitboard/recruitboard/internal/platform/logging"
	"github.com/recruitboard/recruitboard/internal/platform/resilience"
	"github.com/recruitboard/recruitboard/internal/usecase"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Server *http.Server
	DB     *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	teams, err := loadRoster(cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		db          *sqlx.DB
		recruitRepo recruit.Repository
		rerankRepo  rerank.Repository
	)
	if cfg.DBURL != "" {
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		recruitRepo = postgres.NewRecruitRepository(db)
		rerankRepo = postgres.NewRerankRepository(db)
		logger.Info("storage configured", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		recruitRepo = memory.NewRecruitRepository()
		rerankRepo = memory.NewRerankRepository()
		logger.Info("storage configured", "driver", "memory")
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	exporter := export.NewWriter(cfg.ExportDir)
	if exporter.Enabled() {
		logger.Info("class export enabled", "dir", cfg.ExportDir)
	}

	recruitService := usecase.NewRecruitService(recruitRepo, teams)
	rerankService := usecase.NewRerankService(recruitRepo, rerankRepo, teams, exporter, store, logger)
	leaderboardService := usecase.NewLeaderboardService(rerankRepo, teams, store)

	var provider usecase.RecruitImportProvider
	if cfg.CFBDEnabled {
		provider = cfbd.NewClient(cfbd.ClientConfig{
			BaseURL:    cfg.CFBDBaseURL,
			APIKey:     cfg.CFBDAPIKey,
			Timeout:    cfg.CFBDTimeout,
			MaxRetries: cfg.CFBDMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.CFBDCircuitEnabled,
				FailureThreshold: cfg.CFBDCircuitFailureCount,
				OpenTimeout:      cfg.CFBDCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.CFBDCircuitHalfOpenMax,
			},
		})
	}
	importService := usecase.NewImportService(
		provider,
		recruitService,
		rerankService,
		teams,
		idgen.NewRandomGenerator(),
		logger,
	)

	verifier := introspect.NewClient(introspect.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AuthTimeout},
		BaseURL:        cfg.AuthBaseURL,
		IntrospectPath: cfg.AuthIntrospectPath,
		CacheTTL:       cfg.AuthCacheTTL,
		CacheMaxSize:   cfg.AuthCacheMaxEntries,
		Logger:         logger,
	})

	handler := httpapi.NewHandler(recruitService, rerankService, leaderboardService, importService, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, DB: db}, nil
}

// Close releases resources owned by the app that outlive the HTTP server.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func loadRoster(cfg config.Config, logger *logging.Logger) (*roster.Roster, error) {
	if cfg.RosterFile == "" {
		teams := roster.Default()
		logger.Info("roster loaded", "source", "builtin", "teams", len(teams.Teams()))
		return teams, nil
	}

	teams, err := roster.LoadFile(cfg.RosterFile)
	if err != nil {
		return nil, fmt.Errorf("load roster file %s: %w", cfg.RosterFile, err)
	}
	logger.Info("roster loaded", "source", cfg.RosterFile, "teams", len(teams.Teams()))
	return teams, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return db, nil
}

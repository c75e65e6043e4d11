package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/config"
	"github.com/prezadito/data-detective-sub001/internal/connectivity"
	"github.com/prezadito/data-detective-sub001/internal/delivery/httpd"
	"github.com/prezadito/data-detective-sub001/internal/engine"
	"github.com/prezadito/data-detective-sub001/internal/metrics"
	"github.com/prezadito/data-detective-sub001/internal/middleware"
	"github.com/prezadito/data-detective-sub001/internal/server"
	"github.com/prezadito/data-detective-sub001/internal/service"
	"github.com/prezadito/data-detective-sub001/internal/session"
	"github.com/prezadito/data-detective-sub001/internal/storage"
	"github.com/prezadito/data-detective-sub001/internal/tracking"
)

// MemoryStoragePath keeps tokens in memory instead of a SQLite file.
const MemoryStoragePath = ":memory:"

type App struct {
	server  *server.Server
	logger  zerolog.Logger
	config  *config.Config
	store   storage.Storage
	engine  *engine.Engine
	monitor *connectivity.Monitor
	tracker *tracking.Tracker
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := openStorage(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	tracker, err := tracking.New(ctx, cfg.Tracking, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create tracker, continuing without it")
		tracker = tracking.Disabled(log)
	}

	m := metrics.New()

	monitor := connectivity.NewMonitor(cfg.Connectivity.Debounce, log)
	monitor.Subscribe(func(online bool) {
		if online {
			log.Info().Msg("Backend reachable again")
			return
		}
		log.Warn().Msg("Backend unreachable, showing offline banner")
	})

	api, err := apiclient.New(cfg.API, store, log,
		apiclient.WithConnectivity(monitor),
		apiclient.WithMetrics(m),
	)
	if err != nil {
		monitor.Stop()
		closeStorage(store, log)
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	services := service.New(api, log)

	sessions := session.NewManager(services.Auth, store, log)
	if err := sessions.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to restore session")
	}

	eng := engine.New(cfg.Engine, m, log)
	eng.Start(context.Background())

	h := httpd.NewHandler(services, sessions, eng, monitor, m, log)

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	srv := server.NewServer(server.ServerConfig{
		Address:         cfg.Server.Address,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)

	srv.SetupMiddleware(server.Middleware{
		CORS: middleware.NewCORS(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
			cfg.CORS.ExposedHeaders,
			cfg.CORS.AllowCredentials,
			cfg.CORS.MaxAge,
		),
		Tracing:  middleware.Tracing(tracker),
		Timeout:  middleware.Timeout(cfg.Server.WriteTimeout),
		Logger:   middleware.RequestLogger(log),
		Recovery: middleware.Recovery(log, tracker, m),
	})

	return &App{
		server:  srv,
		logger:  log,
		config:  cfg,
		store:   store,
		engine:  eng,
		monitor: monitor,
		tracker: tracker,
	}, nil
}

// Handler is the full middleware chain in front of the pages.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

func (a *App) Run() error {
	if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down datadetective...")

	err := a.server.Shutdown(ctx)

	a.monitor.Stop()

	if closeErr := a.engine.Close(); closeErr != nil {
		a.logger.Error().Err(closeErr).Msg("Failed to close query engine")
	}

	closeStorage(a.store, a.logger)

	if trackErr := a.tracker.Shutdown(ctx); trackErr != nil {
		a.logger.Error().Err(trackErr).Msg("Failed to flush tracker")
	}

	return err
}

func openStorage(cfg config.StorageConfig, log zerolog.Logger) (storage.Storage, error) {
	if cfg.Path == MemoryStoragePath {
		log.Warn().Msg("Using in-memory local storage, tokens will not survive a restart")
		return storage.NewMemoryStorage(), nil
	}

	store, err := storage.NewSQLiteStorage(cfg.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	return store, nil
}

func closeStorage(store storage.Storage, log zerolog.Logger) {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close local storage")
	}
}

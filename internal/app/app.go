package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"weekly-tracker/internal/config"
	"weekly-tracker/internal/db"
	trackerdomain "weekly-tracker/internal/domain/tracker"
	postgresrepo "weekly-tracker/internal/repository/postgres/tracker"
	sqliterepo "weekly-tracker/internal/repository/sqlite/tracker"
	"weekly-tracker/internal/transport/httpserver"
	"weekly-tracker/internal/transport/httpserver/handler"
	"weekly-tracker/internal/transport/httpserver/middleware"
	"weekly-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	closeDB    func() error
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	repo, closeDB, err := openRepository(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	log.Info("app: initializing router")
	handlers := handler.New(trackerdomain.NewService(repo), log.With("component", "http"))
	router := httpserver.NewRouter(cfg, handlers, metrics, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		closeDB:    closeDB,
	}, nil
}

func openRepository(cfg config.DBConfig, log logger.Logger) (trackerdomain.Repository, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		gormDB, err := db.NewPostgres(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(gormDB, log); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return postgresrepo.NewPostgres(gormDB), sqlDB.Close, nil
	case config.DriverSQLite:
		sqlDB, err := db.NewSQLite(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return sqliterepo.NewSQLite(sqlDB), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	serverErrCh := make(chan error, 1)
	go func() {
		a.log.Info("http: listening", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown: %w", err))
	}
	return runErr
}

func (a *App) Close() error {
	if a.closeDB == nil {
		return nil
	}
	return a.closeDB()
}

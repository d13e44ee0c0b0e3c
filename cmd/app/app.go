// Package main is the entry point for the FX rate sync service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxsync/internal/cache"
	"fxsync/internal/config"
	"fxsync/internal/provider"
	"fxsync/internal/repository"
	"fxsync/internal/service"
	"fxsync/internal/worker"
)

// App holds all application dependencies and manages their lifecycle.
type App struct {
	cfg         *config.Config
	logger      *zap.SugaredLogger
	db          *sql.DB
	rdbCache    *redis.Client
	rdbAsynq    *redis.Client
	asynqClient *asynq.Client
	asynqServer *asynq.Server
	asynqMux    *asynq.ServeMux
	httpServer  *http.Server
}

// NewApp initializes all dependencies and returns a ready-to-run App.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initStorage(); err != nil {
		_ = app.close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.close()
		return nil, err
	}

	return app, nil
}

// close releases database and Redis connections
func (app *App) close() error {
	var errs []error
	if app.asynqClient != nil {
		if err := app.asynqClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("asynq client close: %w", err))
		}
	}
	if app.rdbAsynq != nil {
		if err := app.rdbAsynq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis asynq close: %w", err))
		}
	}
	if app.rdbCache != nil {
		if err := app.rdbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis cache close: %w", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (app *App) initStorage() error {
	db, err := repository.NewPostgresDB(&app.cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to Postgres: %w", err)
	}
	app.db = db

	if err := repository.RunMigrations(app.db, app.logger); err != nil {
		return fmt.Errorf("run DB migrations: %w", err)
	}

	app.rdbCache = redis.NewClient(&redis.Options{
		Addr: app.cfg.Redis.CacheAddr,
	})
	// The cache tier is allowed to be down; the fallback chain covers it.
	if err := app.rdbCache.Ping(context.Background()).Err(); err != nil {
		app.logger.Warnw("Redis cache not reachable at startup, continuing without it",
			"addr", app.cfg.Redis.CacheAddr, "error", err)
	} else {
		app.logger.Infow("Connected to Redis cache", "addr", app.cfg.Redis.CacheAddr)
	}

	return nil
}

func (app *App) initServices() error {
	redisOpt := asynq.RedisClientOpt{Addr: app.cfg.Redis.AsynqAddr}

	app.rdbAsynq = redis.NewClient(&redis.Options{Addr: app.cfg.Redis.AsynqAddr})
	app.asynqClient = asynq.NewClient(redisOpt)
	app.asynqServer = asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:              app.cfg.Worker.Concurrency,
			DelayedTaskCheckInterval: time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second,
			TaskCheckInterval:        time.Duration(app.cfg.Worker.CheckIntervalSec) * time.Second,
		},
	)
	app.logger.Infow("Asynq configured", "addr", app.cfg.Redis.AsynqAddr)

	snapshotSource := newSnapshotSource(app.cfg, app.logger)
	snapshotCache := cache.NewSnapshotCache(
		app.rdbCache,
		time.Duration(app.cfg.Cache.SnapshotTTLSec)*time.Second,
		app.logger,
	)
	snapshotStore := repository.NewPostgresSnapshotStore(app.db)

	rateService := service.NewRateService(
		snapshotCache,
		snapshotStore,
		snapshotSource,
		app.logger,
		time.Duration(app.cfg.Source.TierTimeoutSec)*time.Second,
	)

	syncEnqueuer := worker.NewSyncEnqueuer(
		app.asynqClient,
		app.cfg.Worker.MaxRetry,
		time.Duration(app.cfg.Worker.TimeoutSec)*time.Second,
	)

	app.asynqMux = asynq.NewServeMux()
	app.asynqMux.HandleFunc(worker.TaskTypeSyncRates, worker.NewSyncRatesHandler(rateService, app.logger))

	app.initHTTP(rateService, syncEnqueuer)
	return nil
}

// newSnapshotSource builds the remote source: open.er-api.com, optionally
// chained with frankfurter as fallback, wrapped in the retry policy.
func newSnapshotSource(cfg *config.Config, logger *zap.SugaredLogger) provider.SnapshotSource {
	primary := provider.NewOpenERAPIProvider(
		cfg.OpenERAPI.BaseURL,
		cfg.Source.BaseCurrency,
		cfg.OpenERAPI.TimeoutSec,
		cfg.OpenERAPI.RequestsPerSec,
	)

	var src provider.SnapshotSource = primary
	if cfg.Frankfurter.BaseURL != "" {
		fallback := provider.NewFrankfurterProvider(
			cfg.Frankfurter.BaseURL,
			cfg.Source.BaseCurrency,
			cfg.Frankfurter.TimeoutSec,
		)
		src = provider.NewSourceChain(primary, fallback)
	}

	return provider.NewRetryingSource(
		src,
		cfg.Source.MaxRetries,
		time.Duration(cfg.Source.BackoffBaseMs)*time.Millisecond,
		time.Duration(cfg.Source.BackoffMaxMs)*time.Millisecond,
		logger,
	)
}

// Run starts the HTTP server and Asynq worker, blocking until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Infow("Starting Asynq worker server")
		if err := app.asynqServer.Start(app.asynqMux); err != nil {
			return fmt.Errorf("asynq worker failed to start: %w", err)
		}

		<-ctx.Done()
		return nil
	})

	g.Go(func() error {
		app.logger.Infow("HTTP server listening", "port", app.cfg.Server.Port)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown: triggered by context cancellation (signal or component failure).
	g.Go(func() error {
		<-ctx.Done()
		return app.shutdown()
	})

	return g.Wait()
}

// shutdown performs ordered teardown: HTTP server -> Asynq worker -> connections.
// This ensures in-flight sync runs finish before the DB and Redis connections close.
func (app *App) shutdown() error {
	app.logger.Infow("Shutting down server...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 1. Stop accepting new HTTP requests, drain in-flight
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	// 2. Drain in-flight Asynq tasks
	app.asynqServer.Shutdown()

	// 3. Close connections (asynq client, Redis, database)
	if err := app.close(); err != nil {
		app.logger.Errorw("Connection cleanup errors", "error", err)
		errs = append(errs, err)
	}

	app.logger.Infow("Shutdown complete")
	return errors.Join(errs...)
}

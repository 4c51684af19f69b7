// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"correspondence-workers/internal/api"
	"correspondence-workers/internal/common/camunda"
	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/database"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/common/observability"
	"correspondence-workers/internal/correspondence"
	"correspondence-workers/internal/templates"

	ci "correspondence-workers/internal/workers/correspondence/check-inquiry"
	rc "correspondence-workers/internal/workers/correspondence/render-correspondence"
	st "correspondence-workers/internal/workers/correspondence/select-template"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	obs := observability.New(ctx, observability.Options{
		ServiceName:  cfg.Observability.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		OTLPInsecure: cfg.Observability.OTLPInsecure,
		SampleRatio:  cfg.Observability.TraceSampleRatio,
	}, log)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL and Redis ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres client init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := database.ConnectWithRetry(ctx, pg, 15, 2*time.Second, log); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis client init failed", zap.Error(err))
	}
	defer rdb.Close()
	if err := database.ConnectWithRetry(ctx, rdb, 10, 2*time.Second, log); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}

	// --- Templates and engine ---
	store := templates.NewStore(pg.DB, rdb.Client, cfg.Database.Redis.KeyPrefix, cfg.Template.CacheTTLDuration(), log)
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("template schema setup failed", zap.Error(err))
	}
	engine := correspondence.New(cfg.CorrespondenceSettings())

	renderDeps := rc.ServiceDependencies{
		Engine:        engine,
		Templates:     store,
		Observability: obs,
		Logger:        log,
	}

	// --- Workers ---
	registry := camunda.NewWorkerRegistry(zeebe.GetClient(), log)

	renderHandler, err := rc.NewHandler(rc.HandlerOptions{
		Config:       rc.ConfigFrom(cfg),
		Dependencies: renderDeps,
	})
	if err != nil {
		zapLog.Fatal("failed to create render-correspondence handler", zap.Error(err))
	}
	registry.Start(rc.TaskType, config.GetWorkerConfig(cfg, rc.TaskType), renderHandler.Handle)

	selectHandler := st.NewHandler(st.LoadConfig(cfg), store, log)
	registry.Start(st.TaskType, config.GetWorkerConfig(cfg, st.TaskType), selectHandler.Handle)

	checkHandler := ci.NewHandler(ci.LoadConfig(cfg), engine, log)
	registry.Start(ci.TaskType, config.GetWorkerConfig(cfg, ci.TaskType), checkHandler.Handle)

	zapLog.Info("Workers registered", zap.Strings("taskTypes", registry.TaskTypes()))

	// --- Health, metrics and preview server ---
	var server *api.Server
	if cfg.HTTP.Enabled {
		router := api.NewRouter(api.RouterConfig{
			Renderer:       rc.NewService(renderDeps, rc.ConfigFrom(cfg)),
			Templates:      store,
			Checks:         []database.Pinger{pg, rdb, zeebe},
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			ServiceName:    cfg.Observability.ServiceName,
			Version:        cfg.App.Version,
			Logger:         log,
		})
		server = api.NewServer(cfg.HTTP, router, log)
		server.Start()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping HTTP server", zap.Error(err))
		}
	}
	registry.Close()
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	obs.Shutdown(shutdownCtx)

	zapLog.Info("Worker manager stopped gracefully")
}

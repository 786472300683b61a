package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/tskprio/internal/app"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tskprio/pkg/config"
	"github.com/felixgeelhaar/tskprio/pkg/observability"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(observability.LogConfigFrom(cfg, "tskprio-worker"))
	logger.Info("starting tskprio worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		return 1
	}
	defer container.Close()

	if err := container.EnableOutboxProcessor(); err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		return 1
	}
	processor := container.OutboxProcessor

	if cfg.OutboxProcessorEnabled {
		if err := processor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			return 1
		}
	} else {
		logger.Warn("outbox processor disabled")
	}

	go runCleanup(ctx, container, logger)

	if cfg.WorkerHealthAddr != "" {
		serveHealth(ctx, container, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
	processor.Stop()
	logger.Info("worker stopped")
	return 0
}

// serveHealth exposes /readyz for dependencies and /healthz for the outbox
// processor until ctx is done.
func serveHealth(ctx context.Context, container *app.Container, logger *slog.Logger) {
	addr := container.Config.WorkerHealthAddr
	processor := container.OutboxProcessor

	mux := http.NewServeMux()
	mux.Handle("/readyz", container.HealthRegistry().Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Status string `json:"status"`
			outbox.Snapshot
		}{Status: "ok", Snapshot: processor.Snapshot()})
	})

	healthSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}

// runCleanup deletes published outbox messages past the retention period.
func runCleanup(ctx context.Context, container *app.Container, logger *slog.Logger) {
	cfg := container.Config
	if cfg.OutboxCleanupInterval <= 0 || cfg.OutboxRetentionDays <= 0 {
		return
	}
	ticker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := container.OutboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
			}
		}
	}
}

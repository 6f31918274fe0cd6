package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scansafe/scansafe/internal/bootstrap"
	"github.com/scansafe/scansafe/internal/config"
	"github.com/scansafe/scansafe/internal/observability/logging"
	"github.com/scansafe/scansafe/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeScanRecorded(ctx, func(handlerCtx context.Context, scanID string) error {
		recheckCtx, cancel := context.WithTimeout(handlerCtx, time.Minute)
		defer cancel()

		workerMetrics.StartRecheck()
		start := time.Now()
		recheckErr := app.RecheckUC.RecheckByID(recheckCtx, scanID)
		workerMetrics.FinishRecheck("worker", time.Since(start), recheckErr)
		return recheckErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

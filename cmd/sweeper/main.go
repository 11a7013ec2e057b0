// sweeper clears expired verification and forgot-password codes on a cron
// schedule. It runs as its own process next to the API server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/blog-api/config"
	"github.com/ErlanBelekov/blog-api/internal/health"
	"github.com/ErlanBelekov/blog-api/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/blog-api/internal/log"
	"github.com/ErlanBelekov/blog-api/internal/metrics"
	"github.com/ErlanBelekov/blog-api/internal/sweeper"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sw, err := sweeper.New(postgres.NewUserRepository(pool), logger, cfg.SweepSchedule)
	if err != nil {
		pool.Close()
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	sweepDone := make(chan struct{})
	go func() {
		sw.Start(ctx)
		close(sweepDone)
	}()

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	<-sweepDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("sweeper process shut down")
}

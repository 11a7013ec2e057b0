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
	"github.com/ErlanBelekov/blog-api/internal/email"
	"github.com/ErlanBelekov/blog-api/internal/hashing"
	"github.com/ErlanBelekov/blog-api/internal/health"
	"github.com/ErlanBelekov/blog-api/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/blog-api/internal/log"
	"github.com/ErlanBelekov/blog-api/internal/metrics"
	"github.com/ErlanBelekov/blog-api/internal/otp"
	httptransport "github.com/ErlanBelekov/blog-api/internal/transport/http"
	"github.com/ErlanBelekov/blog-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/blog-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err = postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			stop()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	userRepo := postgres.NewUserRepository(pool)
	postRepo := postgres.NewPostRepository(pool)

	// Auth
	authUsecase := usecase.NewAuthUsecase(
		userRepo,
		hashing.NewHasher(cfg.BcryptCost, []byte(cfg.CodeHMACSecret)),
		otp.NewGenerator(cfg.CodeTTL),
		email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger),
		[]byte(cfg.JWTSecret),
		cfg.SessionTTL,
	)
	authHandler := handler.NewAuthHandler(authUsecase, logger, !cfg.IsLocal())

	// Posts
	postUsecase := usecase.NewPostUsecase(postRepo)
	postHandler := handler.NewPostHandler(postUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, postHandler, userRepo, []byte(cfg.JWTSecret), cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

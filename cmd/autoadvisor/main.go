package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoadvisor/internal/config"
	logpkg "github.com/kailas-cloud/autoadvisor/internal/logger"
	"github.com/kailas-cloud/autoadvisor/internal/metrics"
	"github.com/kailas-cloud/autoadvisor/internal/transport/backend"
	chiTransport "github.com/kailas-cloud/autoadvisor/internal/transport/chi"
	healthuc "github.com/kailas-cloud/autoadvisor/internal/usecase/health"
	searchuc "github.com/kailas-cloud/autoadvisor/internal/usecase/search"
	"github.com/kailas-cloud/autoadvisor/internal/version"
)

func main() {
	// .env is optional: in containers the variables come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting AutoAdvisor web server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend_url", cfg.Backend.BaseURL),
		zap.Duration("backend_timeout", cfg.Backend.Timeout()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterBackendMetrics()
	metrics.RegisterHTTPMetrics()

	client := backend.NewClient(&backend.Config{
		BaseURL:    cfg.Backend.BaseURL,
		SearchPath: cfg.Backend.SearchPath,
		Timeout:    cfg.Backend.Timeout(),
		Logger:     logger,
	})

	// The UI starts even when the backend is down; /health reports it.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 5*time.Second)
	if err := client.HealthCheck(probeCtx); err != nil {
		logger.Warn("Recommendation backend not reachable", zap.Error(err))
	} else {
		logger.Info("Connected to recommendation backend")
	}
	cancelProbe()

	searchSvc := searchuc.New(client)
	healthSvc := healthuc.New(client)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		APIKeys:        cfg.Auth.APIKeys,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

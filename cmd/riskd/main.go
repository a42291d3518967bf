package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/usecase"
	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/port"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/messaging"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/storage"
	"github.com/bibbank/bib/services/credit-risk-service/internal/observability"
	grpcpresentation "github.com/bibbank/bib/services/credit-risk-service/internal/presentation/grpc"
	"github.com/bibbank/bib/services/credit-risk-service/internal/presentation/rest"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting credit-risk-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"artifact_path", cfg.ArtifactPath,
	)

	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "credit-risk-service",
	})
	if err != nil {
		logger.Warn("failed to initialize metrics exporter, continuing without /metrics", "error", err)
	}

	// Load the fitted model artifact. On failure the context transitions to
	// LoadFailed and the service keeps running but refuses every request; it
	// never serves with a partially loaded model.
	modelCtx := artifact.NewContext()
	store := storage.NewFileArtifactStore(logger)
	if err := modelCtx.Load(store, cfg.ArtifactPath); err != nil {
		logger.Error("model artifact load failed, all requests will be rejected",
			"path", cfg.ArtifactPath,
			"error", err,
		)
	} else {
		logger.Info("model artifact loaded", "path", cfg.ArtifactPath)
	}

	// Score event publishing is optional; without a broker the scoring path
	// simply skips it.
	var publisher port.EventPublisher
	if cfg.KafkaBroker != "" {
		kafkaPublisher := messaging.NewKafkaPublisher([]string{cfg.KafkaBroker}, cfg.ScoreTopic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("score event publishing enabled", "broker", cfg.KafkaBroker, "topic", cfg.ScoreTopic)
	}

	scoreRecordUC := usecase.NewScoreRecord(modelCtx, publisher, logger)

	grpcHandler := grpcpresentation.NewRiskScoringHandler(scoreRecordUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, modelCtx, cfg.GRPCAddress(), logger)

	scoreHandler := rest.NewScoreHandler(scoreRecordUC, logger)
	healthHandler := rest.NewHealthHandler(modelCtx, logger)

	httpMux := http.NewServeMux()
	scoreHandler.RegisterRoutes(httpMux)
	healthHandler.RegisterRoutes(httpMux)
	if metricsHandler != nil {
		httpMux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("credit-risk-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"model_state", string(modelCtx.State()),
		"environment", cfg.Environment,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down credit-risk-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-risk-service stopped")
}

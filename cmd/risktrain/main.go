package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/usecase"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/port"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/config"
	csvinfra "github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/csv"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/messaging"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/postgres"
	"github.com/bibbank/bib/services/credit-risk-service/internal/infrastructure/storage"
	"github.com/bibbank/bib/services/credit-risk-service/internal/observability"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	inspect := flag.Bool("inspect", false, "print the RFM distribution without training")
	flag.Parse()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	ctx := context.Background()

	if *migrateOnly {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied", "dir", cfg.MigrationsDir)
		return
	}

	source, cleanup, err := newTransactionSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize transaction source", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	rfmCalculator := service.NewRFMCalculator()

	if *inspect {
		report, err := usecase.NewInspectRFM(source, rfmCalculator).Execute(ctx)
		if err != nil {
			logger.Error("rfm inspection failed", "error", err)
			os.Exit(1)
		}
		fmt.Print(report.String())
		return
	}

	buildFeatures := usecase.NewBuildFeatures(
		source,
		service.NewCustomerAggregator(),
		rfmCalculator,
		service.NewProxyLabeler(cfg.RecencyPercentile, cfg.MonetaryPercentile, logger),
		logger,
	)

	var tableWriter port.ProcessedTableWriter
	if cfg.ProcessedDataPath != "" {
		tableWriter = csvinfra.NewTableWriter(cfg.ProcessedDataPath)
	}

	var publisher port.EventPublisher
	if cfg.KafkaBroker != "" {
		kafkaPublisher := messaging.NewKafkaPublisher([]string{cfg.KafkaBroker}, cfg.ModelTopic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	trainModel := usecase.NewTrainModel(
		buildFeatures,
		storage.NewFileArtifactStore(logger),
		tableWriter,
		publisher,
		cfg.SchemaVersion,
		cfg.ArtifactPath,
		logger,
	)

	started := time.Now()
	summary, err := trainModel.Execute(ctx)
	if err != nil {
		logger.Error("training pipeline failed", "error", err)
		os.Exit(1)
	}

	logger.Info("training pipeline finished",
		"artifact_id", summary.ArtifactID,
		"artifact_path", summary.ArtifactPath,
		"schema_version", summary.SchemaVersion,
		"rows", summary.Rows,
		"customers", summary.Customers,
		"reference_date", summary.ReferenceDate,
		"recency_threshold", summary.RecencyThreshold,
		"monetary_threshold", summary.MonetaryThreshold,
		"customer_positive_rate", summary.CustomerPositiveRate,
		"row_positive_rate", summary.RowPositiveRate,
		"evaluation", summary.Evaluation.String(),
		"elapsed", time.Since(started).String(),
	)
}

// newTransactionSource wires the configured raw transaction source.
func newTransactionSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.TransactionSource, func(), error) {
	switch cfg.Source {
	case "csv":
		return csvinfra.NewTransactionSource(cfg.RawDataPath, logger), func() {}, nil
	case "postgres":
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		pool, err := postgres.NewPool(dbCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTransactionRepository(pool, logger), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown transaction source %q", cfg.Source)
	}
}

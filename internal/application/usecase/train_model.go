package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/dto"
	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/event"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/port"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
	"github.com/bibbank/bib/services/credit-risk-service/internal/ml"
)

// Evaluation split parameters are fixed so metric deltas across retraining
// runs are attributable to the data, not the split.
const (
	testFraction = 0.2
	splitSeed    = 42
)

// TrainModel is the batch training pipeline: build the labeled feature
// table, fit the transformer, train the classifier on transformed features,
// evaluate on a held-out split, and persist the fitted artifact.
type TrainModel struct {
	buildFeatures *BuildFeatures
	store         artifact.Store
	tableWriter   port.ProcessedTableWriter
	publisher     port.EventPublisher
	schemaVersion string
	artifactPath  string
	logger        *slog.Logger
}

// NewTrainModel creates the TrainModel use case. tableWriter may be nil when
// no processed table export is wanted; publisher may be nil when event
// publishing is not configured.
func NewTrainModel(
	buildFeatures *BuildFeatures,
	store artifact.Store,
	tableWriter port.ProcessedTableWriter,
	publisher port.EventPublisher,
	schemaVersion string,
	artifactPath string,
	logger *slog.Logger,
) *TrainModel {
	return &TrainModel{
		buildFeatures: buildFeatures,
		store:         store,
		tableWriter:   tableWriter,
		publisher:     publisher,
		schemaVersion: schemaVersion,
		artifactPath:  artifactPath,
		logger:        logger,
	}
}

// Execute runs the training pipeline to completion. It is single-threaded,
// batch, run-to-completion.
func (uc *TrainModel) Execute(ctx context.Context) (dto.TrainSummary, error) {
	built, err := uc.buildFeatures.Execute(ctx)
	if err != nil {
		return dto.TrainSummary{}, fmt.Errorf("build features: %w", err)
	}

	transformer := feature.NewTransformer(uc.schemaVersion)
	if err := transformer.Fit(built.Table); err != nil {
		return dto.TrainSummary{}, fmt.Errorf("fit transformer: %w", err)
	}

	X := make([][]float64, 0, len(built.Table))
	for i, row := range built.Table {
		vec, err := transformer.Transform(row)
		if err != nil {
			return dto.TrainSummary{}, fmt.Errorf("transform row %d: %w", i, err)
		}
		X = append(X, vec)
	}
	y := built.Labels

	XTrain, XTest, yTrain, yTest := ml.TrainTestSplit(X, y, testFraction, splitSeed)

	classifier := ml.NewLogisticRegression()
	if err := classifier.Fit(XTrain, yTrain); err != nil {
		return dto.TrainSummary{}, fmt.Errorf("fit classifier: %w", err)
	}

	yPred := make([]int, len(XTest))
	probs := make([]float64, len(XTest))
	for i, x := range XTest {
		probs[i], _ = classifier.PredictProbability(x)
		yPred[i], _ = classifier.Predict(x)
	}
	eval := ml.Evaluate(yTest, yPred, probs)
	uc.logger.Info("model evaluated", slog.String("report", eval.String()))

	art, err := artifact.New(transformer, classifier)
	if err != nil {
		return dto.TrainSummary{}, fmt.Errorf("assemble artifact: %w", err)
	}
	if err := uc.store.Save(art, uc.artifactPath); err != nil {
		return dto.TrainSummary{}, fmt.Errorf("persist artifact: %w", err)
	}
	uc.logger.Info("artifact persisted",
		slog.String("artifact_id", art.ID),
		slog.String("path", uc.artifactPath),
		slog.Int("columns", len(art.Schema().Columns())),
	)

	if uc.tableWriter != nil {
		if err := uc.writeProcessedTable(art.Schema(), built, X); err != nil {
			return dto.TrainSummary{}, fmt.Errorf("write processed table: %w", err)
		}
	}

	uc.publishTrained(ctx, art.ID, built)

	return dto.TrainSummary{
		ArtifactID:           art.ID,
		ArtifactPath:         uc.artifactPath,
		SchemaVersion:        uc.schemaVersion,
		ReferenceDate:        built.ReferenceDate,
		Rows:                 len(built.Table),
		Customers:            built.Customers,
		RecencyThreshold:     built.RecencyThreshold,
		MonetaryThreshold:    built.MonetaryThreshold,
		CustomerPositiveRate: built.CustomerPositiveRate,
		RowPositiveRate:      built.RowPositiveRate,
		Evaluation:           eval,
	}, nil
}

// publishTrained emits a ModelTrained event. Publish failures are logged and
// never fail the run: the artifact is already persisted.
func (uc *TrainModel) publishTrained(ctx context.Context, artifactID string, built FeatureBuildResult) {
	if uc.publisher == nil {
		return
	}

	evt := event.NewModelTrained(artifactID, uc.artifactPath, len(built.Table), built.Customers, built.RowPositiveRate)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("failed to publish model trained event",
			slog.String("event_id", evt.EventID),
			slog.String("error", err.Error()),
		)
	}
}

// writeProcessedTable exports the transformed table with the canonical
// columns plus the customer identifier and the label column.
func (uc *TrainModel) writeProcessedTable(schema feature.Schema, built FeatureBuildResult, X [][]float64) error {
	header := append(schema.Columns(), "CustomerId", "is_high_risk")

	rows := make([][]string, 0, len(X))
	for i, vec := range X {
		row := make([]string, 0, len(header))
		for _, v := range vec {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		customerID, _ := built.Table[i]["CustomerId"].(string)
		row = append(row, customerID, strconv.Itoa(built.Labels[i]))
		rows = append(rows, row)
	}

	return uc.tableWriter.Write(header, rows)
}

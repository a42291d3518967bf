package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/dto"
	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/event"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/port"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/valueobject"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
)

// ScoreRecord is the stateless per-request use case: reconcile the incoming
// record against the canonical schema, run it through the fitted transformer
// and classifier, and return the label with its probability.
type ScoreRecord struct {
	modelCtx  *artifact.Context
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewScoreRecord creates the ScoreRecord use case. publisher may be nil when
// event publishing is not configured.
func NewScoreRecord(modelCtx *artifact.Context, publisher port.EventPublisher, logger *slog.Logger) *ScoreRecord {
	return &ScoreRecord{
		modelCtx:  modelCtx,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute scores one record. It fails with artifact.ErrNotReady while the
// model context is not ready, and with feature.ValidationError for records
// that are not flat key-value mappings. Missing optional columns are
// zero-filled by schema reconciliation, never an error.
func (uc *ScoreRecord) Execute(ctx context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error) {
	art, err := uc.modelCtx.Artifact()
	if err != nil {
		return dto.ScoreResponse{}, err
	}

	vec, err := art.Transformer.Transform(req.Record)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("transform record: %w", err)
	}

	probability, err := art.Classifier.PredictProbability(vec)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("predict: %w", err)
	}
	predicted, err := art.Classifier.Predict(vec)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("predict: %w", err)
	}
	label, err := valueobject.RiskLabelFromInt(predicted)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("map predicted label: %w", err)
	}

	resp := dto.ScoreResponse{IsHighRisk: label.Int(), Probability: probability}
	uc.publishScore(ctx, req.Record, resp)
	return resp, nil
}

// publishScore emits a ScoreComputed event. Publish failures are logged and
// never fail the request: the caller already has a valid score.
func (uc *ScoreRecord) publishScore(ctx context.Context, rec feature.Record, resp dto.ScoreResponse) {
	if uc.publisher == nil {
		return
	}

	customerID, _ := rec["CustomerId"].(string)
	transactionID, _ := rec["TransactionId"].(string)
	evt := event.NewScoreComputed(customerID, transactionID, resp.IsHighRisk, resp.Probability)

	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("failed to publish score event",
			slog.String("event_id", evt.EventID),
			slog.String("error", err.Error()),
		)
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/dto"
	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/event"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
)

// readyModelContext trains on the fixture history and returns a context in the
// ready state holding the resulting artifact.
func readyModelContext(t *testing.T) *artifact.Context {
	t.Helper()

	txns, _ := fixtureTxns()
	store := &mockArtifactStore{}
	train := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{txns: txns}),
		store, nil, nil, "v1", "models/m.json", testLogger(),
	)
	_, err := train.Execute(context.Background())
	require.NoError(t, err)

	modelCtx := artifact.NewContext()
	require.NoError(t, modelCtx.Load(&mockArtifactStore{loaded: store.saved}, "models/m.json"))
	return modelCtx
}

func TestScoreRecord_Execute(t *testing.T) {
	uc := NewScoreRecord(readyModelContext(t), nil, testLogger())

	resp, err := uc.Execute(context.Background(), dto.ScoreRequest{Record: feature.Record{
		"Amount":          float64(250),
		"Value":           float64(250),
		"total_amount":    float64(600),
		"avg_amount":      float64(200),
		"trans_count":     float64(3),
		"std_amount":      float64(100),
		"ProductCategory": "airtime",
		"ChannelId":       "web",
	}})
	require.NoError(t, err)

	assert.Contains(t, []int{0, 1}, resp.IsHighRisk)
	assert.GreaterOrEqual(t, resp.Probability, 0.0)
	assert.LessOrEqual(t, resp.Probability, 1.0)
	assert.Equal(t, resp.Probability >= 0.5, resp.IsHighRisk == 1)
}

func TestScoreRecord_MissingColumnsZeroFilled(t *testing.T) {
	uc := NewScoreRecord(readyModelContext(t), nil, testLogger())

	// A sparse payload is scored, never rejected: absent columns reconcile to
	// zero and unknown categories to all-zero indicators.
	resp, err := uc.Execute(context.Background(), dto.ScoreRequest{Record: feature.Record{
		"Amount":          float64(10),
		"ProductCategory": "crypto",
	}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.Probability, 0.0)
	assert.LessOrEqual(t, resp.Probability, 1.0)
}

func TestScoreRecord_Deterministic(t *testing.T) {
	uc := NewScoreRecord(readyModelContext(t), nil, testLogger())
	req := dto.ScoreRequest{Record: feature.Record{"Amount": float64(42)}}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScoreRecord_NotReady(t *testing.T) {
	uc := NewScoreRecord(artifact.NewContext(), nil, testLogger())

	_, err := uc.Execute(context.Background(), dto.ScoreRequest{Record: feature.Record{"Amount": float64(1)}})
	assert.ErrorIs(t, err, artifact.ErrNotReady)
}

func TestScoreRecord_InvalidRecord(t *testing.T) {
	uc := NewScoreRecord(readyModelContext(t), nil, testLogger())

	_, err := uc.Execute(context.Background(), dto.ScoreRequest{Record: feature.Record{
		"Amount": map[string]any{"nested": 1},
	}})
	var verr *feature.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestScoreRecord_PublishesScoreEvent(t *testing.T) {
	publisher := &mockEventPublisher{}
	uc := NewScoreRecord(readyModelContext(t), publisher, testLogger())

	resp, err := uc.Execute(context.Background(), dto.ScoreRequest{Record: feature.Record{
		"CustomerId":    "X",
		"TransactionId": "T9",
		"Amount":        float64(250),
	}})
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	evt, ok := publisher.published[0].(event.ScoreComputed)
	require.True(t, ok)
	assert.Equal(t, "X", evt.CustomerID)
	assert.Equal(t, "T9", evt.TransactionID)
	assert.Equal(t, resp.IsHighRisk, evt.IsHighRisk)
	assert.InDelta(t, resp.Probability, evt.Probability, 1e-12)
	assert.NotEmpty(t, evt.EventID)
}

func TestScoreRecord_PublishFailureDoesNotFailRequest(t *testing.T) {
	publisher := &mockEventPublisher{err: fmt.Errorf("broker unavailable")}
	uc := NewScoreRecord(readyModelContext(t), publisher, testLogger())

	_, err := uc.Execute(context.Background(), dto.ScoreRequest{Record: feature.Record{"Amount": float64(1)}})
	assert.NoError(t, err)
}

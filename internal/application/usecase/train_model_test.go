package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/event"
)

func TestTrainModel_Execute(t *testing.T) {
	txns, ref := fixtureTxns()
	store := &mockArtifactStore{}
	writer := &mockTableWriter{}

	uc := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{txns: txns}),
		store,
		writer,
		nil,
		"v1",
		"models/logistic_model.json",
		testLogger(),
	)

	summary, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v1", summary.SchemaVersion)
	assert.Equal(t, "models/logistic_model.json", summary.ArtifactPath)
	assert.Equal(t, ref, summary.ReferenceDate)
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, 2, summary.Customers)
	assert.InDelta(t, 0.5, summary.CustomerPositiveRate, 1e-12)
	assert.InDelta(t, 0.75, summary.RowPositiveRate, 1e-12)

	require.NotNil(t, store.saved)
	assert.Equal(t, "models/logistic_model.json", store.savedPath)
	assert.Equal(t, summary.ArtifactID, store.saved.ID)
	require.NoError(t, store.saved.Validate())

	// The persisted bundle scores engineered rows end to end.
	art := store.saved
	vec, err := art.Transformer.Transform(map[string]any{
		"Amount": float64(250), "ProductCategory": "airtime", "ChannelId": "web",
	})
	require.NoError(t, err)
	p, err := art.Classifier.PredictProbability(vec)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)

	// Processed export carries the canonical columns plus identifier and
	// label, one row per transaction.
	wantHeader := append(art.Schema().Columns(), "CustomerId", "is_high_risk")
	assert.Equal(t, wantHeader, writer.header)
	require.Len(t, writer.rows, 4)
	for _, row := range writer.rows {
		assert.Len(t, row, len(wantHeader))
	}
	assert.Equal(t, "X", writer.rows[0][len(wantHeader)-2])
	assert.Equal(t, "1", writer.rows[0][len(wantHeader)-1])
	assert.Equal(t, "Y", writer.rows[3][len(wantHeader)-2])
	assert.Equal(t, "0", writer.rows[3][len(wantHeader)-1])
}

func TestTrainModel_Deterministic(t *testing.T) {
	txns, _ := fixtureTxns()

	run := func() []float64 {
		store := &mockArtifactStore{}
		uc := NewTrainModel(
			newBuildFeatures(t, &mockTransactionSource{txns: txns}),
			store, nil, nil, "v1", "models/m.json", testLogger(),
		)
		_, err := uc.Execute(context.Background())
		require.NoError(t, err)
		return store.saved.Classifier.Weights
	}

	assert.Equal(t, run(), run())
}

func TestTrainModel_PublishesModelTrainedEvent(t *testing.T) {
	txns, _ := fixtureTxns()
	store := &mockArtifactStore{}
	publisher := &mockEventPublisher{}

	uc := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{txns: txns}),
		store, nil, publisher, "v1", "models/m.json", testLogger(),
	)

	summary, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	evt, ok := publisher.published[0].(event.ModelTrained)
	require.True(t, ok)
	assert.Equal(t, summary.ArtifactID, evt.ArtifactID)
	assert.Equal(t, "models/m.json", evt.ArtifactPath)
	assert.Equal(t, 4, evt.Rows)
	assert.Equal(t, 2, evt.Customers)
	assert.InDelta(t, 0.75, evt.PositiveRate, 1e-12)
}

func TestTrainModel_PublishFailureDoesNotFailRun(t *testing.T) {
	txns, _ := fixtureTxns()
	publisher := &mockEventPublisher{err: fmt.Errorf("broker unavailable")}

	uc := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{txns: txns}),
		&mockArtifactStore{}, nil, publisher, "v1", "models/m.json", testLogger(),
	)

	_, err := uc.Execute(context.Background())
	assert.NoError(t, err)
}

func TestTrainModel_NoTableWriter(t *testing.T) {
	txns, _ := fixtureTxns()
	store := &mockArtifactStore{}

	uc := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{txns: txns}),
		store, nil, nil, "v1", "models/m.json", testLogger(),
	)

	_, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, store.saved)
}

func TestTrainModel_SaveFailure(t *testing.T) {
	txns, _ := fixtureTxns()
	store := &mockArtifactStore{saveErr: fmt.Errorf("disk full")}

	uc := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{txns: txns}),
		store, nil, nil, "v1", "models/m.json", testLogger(),
	)

	_, err := uc.Execute(context.Background())
	assert.ErrorContains(t, err, "persist artifact")
}

func TestTrainModel_BuildFailure(t *testing.T) {
	uc := NewTrainModel(
		newBuildFeatures(t, &mockTransactionSource{err: fmt.Errorf("boom")}),
		&mockArtifactStore{}, nil, nil, "v1", "models/m.json", testLogger(),
	)

	_, err := uc.Execute(context.Background())
	assert.ErrorContains(t, err, "build features")
}

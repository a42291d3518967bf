package usecase

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type mockTransactionSource struct {
	txns []model.Transaction
	err  error
}

func (m *mockTransactionSource) LoadAll(ctx context.Context) ([]model.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.txns, nil
}

type mockArtifactStore struct {
	saved     *artifact.Artifact
	savedPath string
	saveErr   error
	loaded    *artifact.Artifact
	loadErr   error
}

func (m *mockArtifactStore) Save(a *artifact.Artifact, path string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = a
	m.savedPath = path
	return nil
}

func (m *mockArtifactStore) Load(path string) (*artifact.Artifact, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loaded, nil
}

type mockTableWriter struct {
	header []string
	rows   [][]string
	err    error
}

func (m *mockTableWriter) Write(header []string, rows [][]string) error {
	if m.err != nil {
		return m.err
	}
	m.header = header
	m.rows = rows
	return nil
}

type mockEventPublisher struct {
	published []any
	err       error
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...any) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, events...)
	return nil
}

// fixtureTxns is a small two-customer history: X transacts three times ending
// at the reference date, Y spends 10 once a hundred days earlier.
func fixtureTxns() ([]model.Transaction, time.Time) {
	ref := time.Date(2018, 11, 15, 12, 0, 0, 0, time.UTC)
	mk := func(id, customerID string, amount int64, ts time.Time, category, channel string) model.Transaction {
		return model.Transaction{
			ID:              id,
			CustomerID:      customerID,
			Amount:          decimal.NewFromInt(amount),
			Value:           decimal.NewFromInt(amount),
			Timestamp:       ts,
			ProductCategory: category,
			ChannelID:       channel,
		}
	}
	return []model.Transaction{
		mk("T1", "X", 100, ref.Add(-48*time.Hour), "airtime", "web"),
		mk("T2", "X", 200, ref.Add(-24*time.Hour), "airtime", "web"),
		mk("T3", "X", 300, ref, "financial_services", "web"),
		mk("T4", "Y", 10, ref.AddDate(0, 0, -100), "airtime", "android"),
	}, ref
}

func newBuildFeatures(t *testing.T, source *mockTransactionSource) *BuildFeatures {
	t.Helper()
	labeler := service.NewProxyLabeler(0.85, 0.85, testLogger())
	uc := NewBuildFeatures(source, service.NewCustomerAggregator(), service.NewRFMCalculator(), labeler, testLogger())
	require.NotNil(t, uc)
	return uc
}

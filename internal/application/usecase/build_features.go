package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/port"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
)

// BuildFeatures assembles the labeled, engineered feature table from the raw
// transaction set: temporal parts per transaction, per-customer aggregates
// joined onto every row, and the RFM proxy label broadcast to all of a
// customer's rows. Each stage consumes an immutable input and produces a new
// output; nothing is mutated across stage boundaries.
type BuildFeatures struct {
	source     port.TransactionSource
	aggregator *service.CustomerAggregator
	rfm        *service.RFMCalculator
	labeler    *service.ProxyLabeler
	logger     *slog.Logger
}

// NewBuildFeatures creates the BuildFeatures use case.
func NewBuildFeatures(
	source port.TransactionSource,
	aggregator *service.CustomerAggregator,
	rfm *service.RFMCalculator,
	labeler *service.ProxyLabeler,
	logger *slog.Logger,
) *BuildFeatures {
	return &BuildFeatures{
		source:     source,
		aggregator: aggregator,
		rfm:        rfm,
		labeler:    labeler,
		logger:     logger,
	}
}

// FeatureBuildResult is the labeled feature table plus the labeling
// diagnostics callers are expected to log and assert on.
type FeatureBuildResult struct {
	Table                []feature.Record
	Labels               []int
	ReferenceDate        time.Time
	Customers            int
	RecencyThreshold     float64
	MonetaryThreshold    float64
	CustomerPositiveRate float64
	RowPositiveRate      float64
}

// Execute runs the full feature build.
func (uc *BuildFeatures) Execute(ctx context.Context) (FeatureBuildResult, error) {
	txns, err := uc.source.LoadAll(ctx)
	if err != nil {
		return FeatureBuildResult{}, fmt.Errorf("load transactions: %w", err)
	}
	if len(txns) == 0 {
		return FeatureBuildResult{}, fmt.Errorf("transaction source is empty")
	}

	profiles := uc.aggregator.Aggregate(txns)

	rfm, referenceDate, err := uc.rfm.Calculate(txns)
	if err != nil {
		return FeatureBuildResult{}, fmt.Errorf("calculate rfm: %w", err)
	}

	labels := uc.labeler.LabelCustomers(rfm)

	table := make([]feature.Record, 0, len(txns))
	rowLabels := make([]int, 0, len(txns))
	positives := 0
	for _, txn := range txns {
		label := labels.LabelFor(txn.CustomerID).Int()
		table = append(table, buildRow(txn, profiles[txn.CustomerID], label))
		rowLabels = append(rowLabels, label)
		if label == 1 {
			positives++
		}
	}

	result := FeatureBuildResult{
		Table:                table,
		Labels:               rowLabels,
		ReferenceDate:        referenceDate,
		Customers:            len(rfm),
		RecencyThreshold:     labels.RecencyThreshold,
		MonetaryThreshold:    labels.MonetaryThreshold,
		CustomerPositiveRate: labels.CustomerPositiveRate(),
		RowPositiveRate:      float64(positives) / float64(len(txns)),
	}

	uc.logger.Info("feature table built",
		slog.Int("rows", len(table)),
		slog.Int("customers", result.Customers),
		slog.Time("reference_date", referenceDate),
		slog.Float64("customer_positive_rate", result.CustomerPositiveRate),
		slog.Float64("row_positive_rate", result.RowPositiveRate),
	)

	return result, nil
}

// buildRow flattens one transaction, its customer's aggregates and label into
// an engineered record. Temporal parts and the distinct-transaction count are
// carried for diagnostics even though they are not model inputs.
func buildRow(txn model.Transaction, profile model.CustomerProfile, label int) feature.Record {
	temporal := service.TemporalFeaturesFromTime(txn.Timestamp)
	return feature.Record{
		"TransactionId":   txn.ID,
		"CustomerId":      txn.CustomerID,
		"Amount":          txn.Amount.InexactFloat64(),
		"Value":           txn.Value.InexactFloat64(),
		"ProductCategory": txn.ProductCategory,
		"ChannelId":       txn.ChannelID,
		"trans_hour":      temporal.Hour,
		"trans_day":       temporal.Day,
		"trans_month":     temporal.Month,
		"trans_year":      temporal.Year,
		"total_amount":    profile.TotalAmount,
		"avg_amount":      profile.AvgAmount,
		"trans_count":     float64(profile.TransCount),
		"std_amount":      profile.StdAmount,
		"unique_trans":    profile.UniqueTrans,
		"is_high_risk":    label,
	}
}

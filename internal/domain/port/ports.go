package port

import (
	"context"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
)

// TransactionSource provides the fully materialized raw transaction table.
// The pipeline consumes it as a batch; no streaming contract is required.
type TransactionSource interface {
	LoadAll(ctx context.Context) ([]model.Transaction, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...any) error
}

// ProcessedTableWriter persists the labeled feature table as a flat delimited
// table for diagnostics and retraining.
type ProcessedTableWriter interface {
	Write(header []string, rows [][]string) error
}

package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
)

// requiredColumns are the raw base columns training cannot proceed without.
var requiredColumns = []string{
	"TransactionId",
	"CustomerId",
	"Amount",
	"Value",
	"TransactionStartTime",
	"ProductCategory",
	"ChannelId",
}

// TransactionSource implements port.TransactionSource over a CSV file.
type TransactionSource struct {
	path   string
	logger *slog.Logger
}

// NewTransactionSource creates a CSV-backed transaction source.
func NewTransactionSource(path string, logger *slog.Logger) *TransactionSource {
	return &TransactionSource{path: path, logger: logger}
}

// LoadAll reads the whole file into memory as a materialized table. A row
// with a malformed field is logged and skipped, never fatal to the batch; a
// required column missing from the header aborts with a SchemaMismatchError.
func (s *TransactionSource) LoadAll(ctx context.Context) ([]model.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &feature.SchemaMismatchError{Column: col}
		}
	}

	var txns []model.Transaction
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", s.path, err)
		}

		txn, err := s.parseRow(row, index)
		if err != nil {
			skipped++
			s.logger.Warn("skipping malformed transaction row",
				slog.String("error", err.Error()),
			)
			continue
		}
		txns = append(txns, txn)
	}

	s.logger.Info("raw transactions loaded",
		slog.String("path", s.path),
		slog.Int("rows", len(txns)),
		slog.Int("skipped", skipped),
	)
	return txns, nil
}

func (s *TransactionSource) parseRow(row []string, index map[string]int) (model.Transaction, error) {
	field := func(name string) string { return row[index[name]] }

	timestamp, err := model.ParseTimestamp(field("TransactionStartTime"))
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := decimal.NewFromString(field("Amount"))
	if err != nil {
		return model.Transaction{}, &model.ParseError{Field: "Amount", Value: field("Amount"), Err: err}
	}
	value, err := decimal.NewFromString(field("Value"))
	if err != nil {
		return model.Transaction{}, &model.ParseError{Field: "Value", Value: field("Value"), Err: err}
	}

	return model.Transaction{
		ID:              field("TransactionId"),
		CustomerID:      field("CustomerId"),
		Amount:          amount,
		Value:           value,
		Timestamp:       timestamp,
		ProductCategory: field("ProductCategory"),
		ChannelID:       field("ChannelId"),
	}, nil
}

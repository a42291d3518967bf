package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/valueobject"
)

// RFMCalculator is a domain service that computes recency, frequency and
// monetary metrics per customer from the raw transaction set.
//
// The reference "now" is the maximum timestamp observed in the input, not the
// wall clock, so the computation is reproducible from a frozen dataset.
type RFMCalculator struct{}

// NewRFMCalculator creates a new RFMCalculator instance.
func NewRFMCalculator() *RFMCalculator {
	return &RFMCalculator{}
}

// Calculate returns the RFM metrics keyed by customer identifier together
// with the reference date used for recency.
func (c *RFMCalculator) Calculate(txns []model.Transaction) (map[string]valueobject.RFMMetrics, time.Time, error) {
	if len(txns) == 0 {
		return nil, time.Time{}, fmt.Errorf("rfm: no transactions to calculate from")
	}

	referenceDate := txns[0].Timestamp
	latest := make(map[string]time.Time)
	counts := make(map[string]int)
	monetary := make(map[string]decimal.Decimal)

	for _, txn := range txns {
		if txn.Timestamp.After(referenceDate) {
			referenceDate = txn.Timestamp
		}
		if last, ok := latest[txn.CustomerID]; !ok || txn.Timestamp.After(last) {
			latest[txn.CustomerID] = txn.Timestamp
		}
		counts[txn.CustomerID]++
		monetary[txn.CustomerID] = monetary[txn.CustomerID].Add(txn.Amount)
	}

	metrics := make(map[string]valueobject.RFMMetrics, len(counts))
	for customerID, last := range latest {
		metrics[customerID] = valueobject.RFMMetrics{
			RecencyDays: int(referenceDate.Sub(last).Hours() / 24),
			Frequency:   counts[customerID],
			Monetary:    monetary[customerID],
		}
	}
	return metrics, referenceDate, nil
}

package service

import (
	"math"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
)

// CustomerAggregator is a domain service that computes per-customer summary
// statistics from the full transaction history. All aggregates are
// order-independent, so the within-group iteration order never affects the
// result.
type CustomerAggregator struct{}

// NewCustomerAggregator creates a new CustomerAggregator instance.
func NewCustomerAggregator() *CustomerAggregator {
	return &CustomerAggregator{}
}

// Aggregate computes one CustomerProfile per distinct customer identifier.
func (a *CustomerAggregator) Aggregate(txns []model.Transaction) map[string]model.CustomerProfile {
	amounts := make(map[string][]float64)
	uniqueIDs := make(map[string]map[string]struct{})

	for _, txn := range txns {
		amounts[txn.CustomerID] = append(amounts[txn.CustomerID], txn.Amount.InexactFloat64())
		ids, ok := uniqueIDs[txn.CustomerID]
		if !ok {
			ids = make(map[string]struct{})
			uniqueIDs[txn.CustomerID] = ids
		}
		ids[txn.ID] = struct{}{}
	}

	profiles := make(map[string]model.CustomerProfile, len(amounts))
	for customerID, values := range amounts {
		profiles[customerID] = model.CustomerProfile{
			CustomerID:  customerID,
			TotalAmount: sum(values),
			AvgAmount:   sum(values) / float64(len(values)),
			TransCount:  len(values),
			StdAmount:   sampleStd(values),
			UniqueTrans: len(uniqueIDs[customerID]),
		}
	}
	return profiles
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// sampleStd computes the sample standard deviation (n-1 denominator). A
// single observation has an undefined sample deviation; it is represented as
// 0 because the scoring path requires a numeric value for every column.
func sampleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := sum(values) / float64(n)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/valueobject"
)

func TestProxyLabeler_LabelCustomers(t *testing.T) {
	// Two customers: X transacted recently and spent more, Y is dormant and
	// spent little. With 0.85 cutoffs on two points the thresholds interpolate
	// between the values, so X satisfies both OR-conditions and Y neither.
	rfm := map[string]valueobject.RFMMetrics{
		"X": {RecencyDays: 1, Frequency: 3, Monetary: decimal.NewFromInt(600)},
		"Y": {RecencyDays: 100, Frequency: 1, Monetary: decimal.NewFromInt(10)},
	}

	labeler := service.NewProxyLabeler(0.85, 0.85, nil)
	result := labeler.LabelCustomers(rfm)

	assert.InDelta(t, 85.15, result.RecencyThreshold, 1e-9)
	assert.InDelta(t, 511.5, result.MonetaryThreshold, 1e-9)

	assert.Equal(t, valueobject.RiskLabelHigh, result.LabelFor("X"))
	assert.Equal(t, valueobject.RiskLabelLow, result.LabelFor("Y"))
	assert.InDelta(t, 0.5, result.CustomerPositiveRate(), 1e-12)
}

func TestProxyLabeler_ORConditions(t *testing.T) {
	labeler := service.NewProxyLabeler(0.5, 0.5, nil)

	// A is recent but a low spender, B is dormant but a big spender, D is
	// both and C is neither. The median thresholds are 80 for recency and
	// 451 for monetary, so C sits strictly above both cutoffs and either
	// condition alone is enough for the high label.
	rfm := map[string]valueobject.RFMMetrics{
		"A": {RecencyDays: 0, Frequency: 1, Monetary: decimal.NewFromInt(1)},
		"B": {RecencyDays: 200, Frequency: 1, Monetary: decimal.NewFromInt(1000)},
		"C": {RecencyDays: 150, Frequency: 1, Monetary: decimal.NewFromInt(2)},
		"D": {RecencyDays: 10, Frequency: 1, Monetary: decimal.NewFromInt(900)},
	}

	result := labeler.LabelCustomers(rfm)

	assert.InDelta(t, 80.0, result.RecencyThreshold, 1e-9)
	assert.InDelta(t, 451.0, result.MonetaryThreshold, 1e-9)
	assert.True(t, result.LabelFor("A").IsHighRisk())
	assert.True(t, result.LabelFor("B").IsHighRisk())
	assert.False(t, result.LabelFor("C").IsHighRisk())
	assert.True(t, result.LabelFor("D").IsHighRisk())
	assert.InDelta(t, 0.75, result.CustomerPositiveRate(), 1e-12)
}

func TestProxyLabeler_UnknownCustomerDefaultsLow(t *testing.T) {
	labeler := service.NewProxyLabeler(0.85, 0.85, nil)
	result := labeler.LabelCustomers(map[string]valueobject.RFMMetrics{
		"X": {RecencyDays: 1, Frequency: 1, Monetary: decimal.NewFromInt(10)},
	})

	assert.Equal(t, valueobject.RiskLabelLow, result.LabelFor("never-seen"))
}

func TestProxyLabeler_SortedCustomers(t *testing.T) {
	labeler := service.NewProxyLabeler(0.85, 0.85, nil)
	result := labeler.LabelCustomers(map[string]valueobject.RFMMetrics{
		"C": {RecencyDays: 1, Frequency: 1, Monetary: decimal.NewFromInt(1)},
		"A": {RecencyDays: 2, Frequency: 1, Monetary: decimal.NewFromInt(2)},
		"B": {RecencyDays: 3, Frequency: 1, Monetary: decimal.NewFromInt(3)},
	})

	assert.Equal(t, []string{"A", "B", "C"}, result.Customers())
}

package service

import (
	"log/slog"
	"sort"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/valueobject"
)

// ProxyLabeler manufactures a binary high-risk label per customer from RFM
// metrics. No true default label exists in the data, so recency and monetary
// are used as behavioral risk proxies: a customer is flagged high risk when
// it is among the most recent slice OR among the top spenders.
//
// The percentile cutoffs are policy parameters, not constants. The realized
// positive rate is logged after labeling rather than assumed up front, since
// the two OR-conditions can overlap or both miss a customer.
type ProxyLabeler struct {
	recencyPercentile  float64
	monetaryPercentile float64
	logger             *slog.Logger
}

// NewProxyLabeler creates a ProxyLabeler with the given percentile cutoffs
// (0 < p < 1, default policy is 0.85 for both).
func NewProxyLabeler(recencyPercentile, monetaryPercentile float64, logger *slog.Logger) *ProxyLabeler {
	return &ProxyLabeler{
		recencyPercentile:  recencyPercentile,
		monetaryPercentile: monetaryPercentile,
		logger:             logger,
	}
}

// LabelResult holds the per-customer labels and the thresholds that produced
// them.
type LabelResult struct {
	ByCustomer        map[string]valueobject.RiskLabel
	RecencyThreshold  float64
	MonetaryThreshold float64
}

// LabelCustomers computes the quantile thresholds across all customers and
// assigns the binary label. The result is invariant under any permutation of
// the input transactions that produced the metrics, because thresholds are
// computed from sorted values.
func (l *ProxyLabeler) LabelCustomers(rfm map[string]valueobject.RFMMetrics) LabelResult {
	recencies := make([]float64, 0, len(rfm))
	monetaries := make([]float64, 0, len(rfm))
	for _, m := range rfm {
		recencies = append(recencies, float64(m.RecencyDays))
		monetaries = append(monetaries, m.Monetary.InexactFloat64())
	}

	recencyThreshold := Quantile(recencies, l.recencyPercentile)
	monetaryThreshold := Quantile(monetaries, l.monetaryPercentile)

	labels := make(map[string]valueobject.RiskLabel, len(rfm))
	positives := 0
	for customerID, m := range rfm {
		label := valueobject.RiskLabelLow
		if float64(m.RecencyDays) <= recencyThreshold || m.Monetary.InexactFloat64() >= monetaryThreshold {
			label = valueobject.RiskLabelHigh
			positives++
		}
		labels[customerID] = label
	}

	result := LabelResult{
		ByCustomer:        labels,
		RecencyThreshold:  recencyThreshold,
		MonetaryThreshold: monetaryThreshold,
	}

	if l.logger != nil {
		l.logger.Info("proxy labels assigned",
			slog.Float64("recency_threshold", recencyThreshold),
			slog.Float64("monetary_threshold", monetaryThreshold),
			slog.Int("customers", len(labels)),
			slog.Float64("customer_positive_rate", result.CustomerPositiveRate()),
		)
	}

	return result
}

// LabelFor returns the label for the given customer. Customers without a
// computed RFM row default to low risk rather than an undefined label.
func (r LabelResult) LabelFor(customerID string) valueobject.RiskLabel {
	if label, ok := r.ByCustomer[customerID]; ok {
		return label
	}
	return valueobject.RiskLabelLow
}

// CustomerPositiveRate is the fraction of customers labeled high risk before
// the label is joined back onto transaction rows.
func (r LabelResult) CustomerPositiveRate() float64 {
	if len(r.ByCustomer) == 0 {
		return 0
	}
	positives := 0
	for _, label := range r.ByCustomer {
		if label.IsHighRisk() {
			positives++
		}
	}
	return float64(positives) / float64(len(r.ByCustomer))
}

// Customers returns the labeled customer identifiers in sorted order, for
// deterministic diagnostics output.
func (r LabelResult) Customers() []string {
	ids := make([]string, 0, len(r.ByCustomer))
	for id := range r.ByCustomer {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/port"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
)

// inspectQuantiles are the probe points reported when diagnosing the proxy
// label thresholds against a dataset.
var inspectQuantiles = []float64{0.20, 0.30, 0.50, 0.70, 0.80, 0.85}

// InspectRFM computes the per-customer RFM distribution without training,
// for diagnosing the proxy-label thresholds against a dataset.
type InspectRFM struct {
	source port.TransactionSource
	rfm    *service.RFMCalculator
}

// NewInspectRFM creates the InspectRFM use case.
func NewInspectRFM(source port.TransactionSource, rfm *service.RFMCalculator) *InspectRFM {
	return &InspectRFM{source: source, rfm: rfm}
}

// MetricSummary describes the distribution of one RFM metric across
// customers.
type MetricSummary struct {
	Name      string
	Count     int
	Mean      float64
	Std       float64
	Min       float64
	Max       float64
	Quantiles map[float64]float64
}

// RFMReport is the full inspection output.
type RFMReport struct {
	Customers int
	Recency   MetricSummary
	Frequency MetricSummary
	Monetary  MetricSummary
}

// Execute loads the transactions and summarizes the RFM distribution.
func (uc *InspectRFM) Execute(ctx context.Context) (RFMReport, error) {
	txns, err := uc.source.LoadAll(ctx)
	if err != nil {
		return RFMReport{}, fmt.Errorf("load transactions: %w", err)
	}

	rfm, _, err := uc.rfm.Calculate(txns)
	if err != nil {
		return RFMReport{}, fmt.Errorf("calculate rfm: %w", err)
	}

	recencies := make([]float64, 0, len(rfm))
	frequencies := make([]float64, 0, len(rfm))
	monetaries := make([]float64, 0, len(rfm))
	for _, m := range rfm {
		recencies = append(recencies, float64(m.RecencyDays))
		frequencies = append(frequencies, float64(m.Frequency))
		monetaries = append(monetaries, m.Monetary.InexactFloat64())
	}

	return RFMReport{
		Customers: len(rfm),
		Recency:   summarize("recency", recencies),
		Frequency: summarize("frequency", frequencies),
		Monetary:  summarize("monetary", monetaries),
	}, nil
}

// String renders the report as a small fixed-width table.
func (r RFMReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RFM distribution across %d customers\n", r.Customers)
	for _, s := range []MetricSummary{r.Recency, r.Frequency, r.Monetary} {
		fmt.Fprintf(&b, "%-10s mean=%.2f std=%.2f min=%.2f max=%.2f\n", s.Name, s.Mean, s.Std, s.Min, s.Max)
		for _, p := range inspectQuantiles {
			fmt.Fprintf(&b, "%-10s   q%.2f=%.2f\n", "", p, s.Quantiles[p])
		}
	}
	return b.String()
}

func summarize(name string, values []float64) MetricSummary {
	s := MetricSummary{
		Name:      name,
		Count:     len(values),
		Quantiles: make(map[float64]float64, len(inspectQuantiles)),
	}
	if len(values) == 0 {
		return s
	}

	s.Min = values[0]
	s.Max = values[0]
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	if len(values) > 1 {
		s.Std = math.Sqrt(sq / float64(len(values)-1))
	}

	for _, p := range inspectQuantiles {
		s.Quantiles[p] = service.Quantile(values, p)
	}
	return s
}

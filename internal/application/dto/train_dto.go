package dto

import (
	"time"

	"github.com/bibbank/bib/services/credit-risk-service/internal/ml"
)

// TrainSummary is the output DTO of the TrainModel use case.
type TrainSummary struct {
	ArtifactID           string
	ArtifactPath         string
	SchemaVersion        string
	ReferenceDate        time.Time
	Rows                 int
	Customers            int
	RecencyThreshold     float64
	MonetaryThreshold    float64
	CustomerPositiveRate float64
	RowPositiveRate      float64
	Evaluation           ml.Evaluation
}

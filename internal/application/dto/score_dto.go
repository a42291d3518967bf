package dto

import "github.com/bibbank/bib/services/credit-risk-service/internal/feature"

// ScoreRequest is the input DTO for the ScoreRecord use case: one flat
// key-value record with an arbitrary field set. Missing optional columns are
// zero-filled downstream, never an error.
type ScoreRequest struct {
	Record feature.Record
}

// ScoreResponse mirrors the wire contract of the scoring endpoint.
type ScoreResponse struct {
	IsHighRisk  int     `json:"is_high_risk"`
	Probability float64 `json:"probability"`
}

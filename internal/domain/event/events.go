package event

import (
	"time"

	"github.com/google/uuid"
)

// ScoreComputed is emitted after a scoring request completes successfully.
type ScoreComputed struct {
	EventID       string    `json:"event_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	CustomerID    string    `json:"customer_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	IsHighRisk    int       `json:"is_high_risk"`
	Probability   float64   `json:"probability"`
}

// NewScoreComputed creates a ScoreComputed event.
func NewScoreComputed(customerID, transactionID string, isHighRisk int, probability float64) ScoreComputed {
	return ScoreComputed{
		EventID:       uuid.New().String(),
		OccurredAt:    time.Now().UTC(),
		CustomerID:    customerID,
		TransactionID: transactionID,
		IsHighRisk:    isHighRisk,
		Probability:   probability,
	}
}

// EventType returns the event type identifier for routing.
func (e ScoreComputed) EventType() string { return "risk.score.computed" }

// Key returns the partitioning key: per-customer ordering is the useful one.
func (e ScoreComputed) Key() string {
	if e.CustomerID != "" {
		return e.CustomerID
	}
	return e.EventID
}

// ModelTrained is emitted by the training pipeline after an artifact is
// persisted.
type ModelTrained struct {
	EventID      string    `json:"event_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	ArtifactID   string    `json:"artifact_id"`
	ArtifactPath string    `json:"artifact_path"`
	Rows         int       `json:"rows"`
	Customers    int       `json:"customers"`
	PositiveRate float64   `json:"positive_rate"`
}

// NewModelTrained creates a ModelTrained event.
func NewModelTrained(artifactID, artifactPath string, rows, customers int, positiveRate float64) ModelTrained {
	return ModelTrained{
		EventID:      uuid.New().String(),
		OccurredAt:   time.Now().UTC(),
		ArtifactID:   artifactID,
		ArtifactPath: artifactPath,
		Rows:         rows,
		Customers:    customers,
		PositiveRate: positiveRate,
	}
}

// EventType returns the event type identifier for routing.
func (e ModelTrained) EventType() string { return "risk.model.trained" }

// Key returns the partitioning key.
func (e ModelTrained) Key() string { return e.ArtifactID }

package ml

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotTrained is returned when prediction is invoked before Fit (or before
// a trained classifier was loaded from an artifact).
var ErrNotTrained = errors.New("ml: classifier is not trained")

// LogisticRegression is a binary probabilistic classifier over fixed-width
// numeric feature vectors, trained with full-batch gradient descent. All
// fields are exported so a trained model serializes into the artifact bundle.
type LogisticRegression struct {
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	LearningRate float64   `json:"learning_rate"`
	Epochs       int       `json:"epochs"`
	Trained      bool      `json:"trained"`
}

// NewLogisticRegression creates an untrained classifier with default
// hyperparameters. The training procedure is deterministic: identical inputs
// always yield identical weights.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Epochs:       500,
	}
}

// Fit trains the classifier on the transformed feature matrix X against the
// binary labels y.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("ml: cannot fit on an empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("ml: feature matrix has %d rows but %d labels", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("ml: row %d has width %d, want %d", i, len(row), width)
		}
	}

	m.Weights = make([]float64, width)
	m.Bias = 0

	n := float64(len(X))
	gradW := make([]float64, width)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i, row := range X {
			p := m.probability(row)
			err := p - float64(y[i])
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}

		for j := range m.Weights {
			m.Weights[j] -= m.LearningRate * gradW[j] / n
		}
		m.Bias -= m.LearningRate * gradB / n
	}

	m.Trained = true
	return nil
}

// PredictProbability returns the positive-class probability in [0, 1].
func (m *LogisticRegression) PredictProbability(x []float64) (float64, error) {
	if !m.Trained {
		return 0, ErrNotTrained
	}
	if len(x) != len(m.Weights) {
		return 0, fmt.Errorf("ml: feature vector has width %d, want %d", len(x), len(m.Weights))
	}
	return m.probability(x), nil
}

// Predict returns the binary label using a fixed 0.5 threshold on the
// positive-class probability.
func (m *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := m.PredictProbability(x)
	if err != nil {
		return 0, err
	}
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (m *LogisticRegression) probability(x []float64) float64 {
	z := m.Bias
	for j, v := range x {
		z += m.Weights[j] * v
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	// Clamp to keep Exp well away from overflow.
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}

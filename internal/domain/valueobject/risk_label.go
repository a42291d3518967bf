package valueobject

import "fmt"

// RiskLabel is an immutable value object representing the binary high-risk
// proxy label attached to a customer and broadcast to its transactions.
type RiskLabel struct {
	value int
}

var (
	RiskLabelLow  = RiskLabel{value: 0}
	RiskLabelHigh = RiskLabel{value: 1}
)

// RiskLabelFromInt reconstructs a RiskLabel from its integer representation.
func RiskLabelFromInt(v int) (RiskLabel, error) {
	switch v {
	case 0:
		return RiskLabelLow, nil
	case 1:
		return RiskLabelHigh, nil
	default:
		return RiskLabel{}, fmt.Errorf("invalid risk label: %d", v)
	}
}

// Int returns the 0/1 encoding used in feature tables and responses.
func (l RiskLabel) Int() int { return l.value }

// IsHighRisk reports whether the label marks the customer as high risk.
func (l RiskLabel) IsHighRisk() bool { return l.value == 1 }

// Equal checks equality with another RiskLabel.
func (l RiskLabel) Equal(other RiskLabel) bool { return l.value == other.value }

// String returns the string representation.
func (l RiskLabel) String() string {
	if l.value == 1 {
		return "HIGH_RISK"
	}
	return "LOW_RISK"
}

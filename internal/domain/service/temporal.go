package service

import (
	"time"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
)

// TemporalFeatures holds the calendar parts extracted from a transaction
// timestamp.
type TemporalFeatures struct {
	Hour  int // 0-23
	Day   int // 1-31
	Month int // 1-12
	Year  int
}

// ExtractTemporalFeatures derives calendar-part features from a raw timestamp
// string. It fails with a model.ParseError when the timestamp cannot be
// parsed; otherwise it is pure and deterministic.
func ExtractTemporalFeatures(raw string) (TemporalFeatures, error) {
	t, err := model.ParseTimestamp(raw)
	if err != nil {
		return TemporalFeatures{}, err
	}
	return TemporalFeaturesFromTime(t), nil
}

// TemporalFeaturesFromTime derives calendar-part features from an already
// parsed timestamp.
func TemporalFeaturesFromTime(t time.Time) TemporalFeatures {
	return TemporalFeatures{
		Hour:  t.Hour(),
		Day:   t.Day(),
		Month: int(t.Month()),
		Year:  t.Year(),
	}
}

package feature

import (
	"fmt"
	"math"
	"strconv"
)

// Record is a flat field-name-to-value mapping: one engineered row at
// training time, or one incoming scoring payload. Values must be scalar.
type Record map[string]any

// ValidationError reports a record that is not a well-formed flat key-value
// mapping (for example a nested object in a scoring request).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record field %q: %s", e.Field, e.Reason)
}

// Validate checks that every value in the record is a scalar. JSON decoding
// yields maps and slices for nested payloads; those are rejected here rather
// than deeper in the pipeline.
func (r Record) Validate() error {
	for field, value := range r {
		switch value.(type) {
		case nil, string, bool,
			float64, float32,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
		default:
			return &ValidationError{Field: field, Reason: fmt.Sprintf("unsupported value type %T", value)}
		}
	}
	return nil
}

// toFloat coerces a scalar record value to float64. Absent fields are handled
// by the caller; a present but unparseable or null value maps to NaN so the
// transformer can mean-impute it.
func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// toString coerces a scalar record value to its categorical string form.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

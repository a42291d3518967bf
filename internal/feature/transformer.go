package feature

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFitted is returned when Transform is invoked before Fit (or before a
// fitted transformer was loaded from an artifact).
var ErrNotFitted = errors.New("feature: transformer is not fitted")

// Transformer is the fitted, serializable preprocessing transformation that
// maps engineered records to the model's numeric input vectors. Two branches
// are combined into one fixed-width output:
//
//   - numeric: mean imputation of missing values, then standardization using
//     fit-time mean and standard deviation per column;
//   - categorical: most-frequent imputation, then expansion into one binary
//     indicator column per fit-time category value; categories unseen at fit
//     time produce all-zero indicators rather than an error.
//
// Fit is called exactly once and freezes all learned statistics; Transform is
// pure given the frozen state, so one fitted instance can be shared across
// concurrent scoring requests without locking.
type Transformer struct {
	Schema       Schema            `json:"schema"`
	Means        []float64         `json:"means"`
	Stds         []float64         `json:"stds"`
	MostFrequent map[string]string `json:"most_frequent"`
	Fitted       bool              `json:"fitted"`
}

// NewTransformer creates an unfitted transformer. The schema version tags the
// canonical column list built at fit time.
func NewTransformer(schemaVersion string) *Transformer {
	return &Transformer{
		Schema: Schema{Version: schemaVersion},
	}
}

// Fit learns the canonical schema, the per-column means and standard
// deviations, and the most frequent category per family from the training
// feature table. Fitting twice is an error: the fitted state is frozen.
func (t *Transformer) Fit(table []Record) error {
	if t.Fitted {
		return fmt.Errorf("feature: transformer is already fitted")
	}
	if len(table) == 0 {
		return fmt.Errorf("feature: cannot fit on an empty table")
	}

	schema, err := BuildSchema(t.Schema.Version, table)
	if err != nil {
		return err
	}
	t.Schema = schema

	t.Means = make([]float64, len(schema.Numeric))
	t.Stds = make([]float64, len(schema.Numeric))
	for i, col := range schema.Numeric {
		values := make([]float64, 0, len(table))
		for _, row := range table {
			v, ok := row[col]
			if !ok {
				continue
			}
			f := toFloat(v)
			if math.IsNaN(f) {
				continue
			}
			values = append(values, f)
		}
		if len(values) == 0 {
			return &SchemaMismatchError{Column: col}
		}
		t.Means[i] = mean(values)
		t.Stds[i] = populationStd(values, t.Means[i])
	}

	t.MostFrequent = make(map[string]string, len(schema.Families))
	for _, family := range schema.Families {
		counts := make(map[string]int)
		best := ""
		for _, row := range table {
			raw, ok := row[family.Name]
			if !ok {
				continue
			}
			value := toString(raw)
			if value == "" {
				continue
			}
			counts[value]++
			if best == "" || counts[value] > counts[best] {
				best = value
			}
		}
		t.MostFrequent[family.Name] = best
	}

	t.Fitted = true
	return nil
}

// Transform reconciles the record against the canonical schema and produces
// the model input vector in canonical column order.
func (t *Transformer) Transform(rec Record) ([]float64, error) {
	if !t.Fitted {
		return nil, ErrNotFitted
	}

	imputed := t.imputeCategorical(rec)
	reconciled, err := t.Schema.Reconcile(imputed)
	if err != nil {
		return nil, err
	}

	vec := make([]float64, 0, len(t.Schema.Numeric))
	for i, col := range t.Schema.Numeric {
		v := reconciled[col].(float64)
		if math.IsNaN(v) {
			v = t.Means[i]
		}
		std := t.Stds[i]
		if std <= 0 {
			std = 1
		}
		vec = append(vec, (v-t.Means[i])/std)
	}
	for _, family := range t.Schema.Families {
		for _, value := range family.Values {
			vec = append(vec, reconciled[family.Column(value)].(float64))
		}
	}
	return vec, nil
}

// imputeCategorical substitutes the fit-time most frequent category for raw
// categorical fields that are present but empty. Absent fields stay absent:
// the caller may have supplied indicator columns directly.
func (t *Transformer) imputeCategorical(rec Record) Record {
	needsImpute := false
	for _, family := range t.Schema.Families {
		if raw, ok := rec[family.Name]; ok && toString(raw) == "" {
			needsImpute = true
			break
		}
	}
	if !needsImpute {
		return rec
	}

	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, family := range t.Schema.Families {
		if raw, ok := out[family.Name]; ok && toString(raw) == "" {
			out[family.Name] = t.MostFrequent[family.Name]
		}
	}
	return out
}

func mean(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s / float64(len(values))
}

// populationStd is the standardization denominator (n denominator), matching
// the scaler the model was originally trained with.
func populationStd(values []float64, m float64) float64 {
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

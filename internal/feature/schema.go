package feature

import (
	"fmt"
	"math"
)

// NumericColumns is the fixed ordered set of numeric model input columns.
// Amount and Value come straight off the transaction; the rest are the
// per-customer aggregates joined onto every row.
var NumericColumns = []string{
	"Amount",
	"Value",
	"total_amount",
	"avg_amount",
	"trans_count",
	"std_amount",
}

// CategoricalColumns is the fixed ordered set of raw categorical fields that
// expand into one-hot indicator columns.
var CategoricalColumns = []string{"ProductCategory", "ChannelId"}

// Family is one categorical field together with its vocabulary as observed in
// the training data, in encounter order.
type Family struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Column returns the canonical indicator column name for one category value.
func (f Family) Column(value string) string {
	return f.Name + "_" + value
}

// Contains reports whether the value is part of the fit-time vocabulary.
func (f Family) Contains(value string) bool {
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Schema is the canonical, versioned list of model input columns that
// training and serving must agree on: the numeric columns in declared order
// followed by the one-hot indicator columns for every category value observed
// at training time. It is first-class data carried inside the fitted
// artifact, not an implicit property of the transformer.
type Schema struct {
	Version  string   `json:"version"`
	Numeric  []string `json:"numeric"`
	Families []Family `json:"families"`
}

// SchemaMismatchError reports a required raw column absent from the entire
// input table at training time. Training cannot proceed without its base
// columns; this is distinct from a single record missing an optional feature
// at serving time, which is silently zero-filled.
type SchemaMismatchError struct {
	Column string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("required column %q is missing from the input table", e.Column)
}

// BuildSchema enumerates the categorical domains from the training feature
// table and returns the canonical schema. Every numeric column must appear in
// at least one row.
func BuildSchema(version string, table []Record) (Schema, error) {
	for _, col := range NumericColumns {
		if !columnPresent(table, col) {
			return Schema{}, &SchemaMismatchError{Column: col}
		}
	}

	families := make([]Family, 0, len(CategoricalColumns))
	for _, name := range CategoricalColumns {
		if !columnPresent(table, name) {
			return Schema{}, &SchemaMismatchError{Column: name}
		}
		family := Family{Name: name}
		seen := make(map[string]struct{})
		for _, row := range table {
			raw, ok := row[name]
			if !ok {
				continue
			}
			value := toString(raw)
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			family.Values = append(family.Values, value)
		}
		families = append(families, family)
	}

	return Schema{
		Version:  version,
		Numeric:  append([]string(nil), NumericColumns...),
		Families: families,
	}, nil
}

// Columns returns the full canonical column list in canonical order.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Numeric))
	cols = append(cols, s.Numeric...)
	for _, family := range s.Families {
		for _, value := range family.Values {
			cols = append(cols, family.Column(value))
		}
	}
	return cols
}

// Reconcile maps an arbitrary flat record onto exactly the canonical columns
// in canonical order:
//
//   - a present numeric column passes through (unparseable values become NaN
//     for the transformer to impute);
//   - a missing numeric or indicator column is filled with 0;
//   - a raw categorical field with a known value sets its indicator to 1; an
//     unknown value leaves the whole family all-zero, never an error.
//
// Reconcile is idempotent: applying it to its own output is a no-op.
func (s Schema) Reconcile(rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	out := make(Record, len(s.Numeric)+8)
	for _, col := range s.Numeric {
		if v, ok := rec[col]; ok {
			out[col] = toFloat(v)
		} else {
			out[col] = float64(0)
		}
	}

	for _, family := range s.Families {
		for _, value := range family.Values {
			col := family.Column(value)
			indicator := float64(0)
			if v, ok := rec[col]; ok {
				indicator = toFloat(v)
				if math.IsNaN(indicator) {
					indicator = 0
				}
			}
			out[col] = indicator
		}
		if raw, ok := rec[family.Name]; ok {
			value := toString(raw)
			if family.Contains(value) {
				out[family.Column(value)] = float64(1)
			}
		}
	}

	return out, nil
}

func columnPresent(table []Record, col string) bool {
	for _, row := range table {
		if _, ok := row[col]; ok {
			return true
		}
	}
	return false
}

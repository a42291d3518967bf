package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timestampLayouts are the accepted raw timestamp formats, tried in order.
// Timestamps are assumed to already be in the canonical zone; no conversion
// is performed here.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Transaction is a single transaction event from the raw log. Transactions
// are immutable once ingested.
type Transaction struct {
	ID              string
	CustomerID      string
	Amount          decimal.Decimal
	Value           decimal.Decimal
	Timestamp       time.Time
	ProductCategory string
	ChannelID       string
}

// ParseError reports a malformed field on a single raw record. A ParseError
// is always recoverable by rejecting the offending record; it is never fatal
// to a batch run or to the scoring service.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseTimestamp parses a raw transaction timestamp string.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{
		Field: "TransactionStartTime",
		Value: raw,
		Err:   fmt.Errorf("unrecognized timestamp layout"),
	}
}

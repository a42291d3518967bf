package valueobject

import "github.com/shopspring/decimal"

// RFMMetrics is an immutable value object holding the three behavioral
// summary metrics for one customer.
type RFMMetrics struct {
	// RecencyDays is the whole number of days between the reference date and
	// the customer's most recent transaction. Always >= 0 because the
	// reference date is the maximum timestamp observed in the input.
	RecencyDays int
	// Frequency is the customer's transaction count.
	Frequency int
	// Monetary is the sum of the customer's transaction amounts. Refunds and
	// debits make it negative; it is not clamped.
	Monetary decimal.Decimal
}

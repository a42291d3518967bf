package model

// CustomerProfile holds per-customer summary statistics derived from the full
// transaction history. Profiles are recomputed from scratch on every feature
// build; there is no incremental update path.
type CustomerProfile struct {
	CustomerID  string
	TotalAmount float64
	AvgAmount   float64
	TransCount  int
	// StdAmount is the sample standard deviation of the amount. A customer
	// with exactly one transaction has StdAmount 0, never an undefined value,
	// because every downstream column must be numeric.
	StdAmount   float64
	UniqueTrans int
}

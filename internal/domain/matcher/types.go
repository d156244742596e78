package matcher

import "math"

// Amount is a monetary value that may be missing from the source record.
type Amount struct {
	Value float64
	Valid bool
}

// Some returns a present amount
func Some(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// None returns an absent amount
func None() Amount {
	return Amount{}
}

// Equal reports exact equality. An absent amount is never equal to anything,
// including another absent amount.
func (a Amount) Equal(b Amount) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	return a.Value == b.Value
}

// Usable reports whether the amount is present and a real number
func (a Amount) Usable() bool {
	return a.Valid && !math.IsNaN(a.Value) && !math.IsInf(a.Value, 0)
}

// Invoice is an overdue invoice waiting for a payment.
// Fields carries every source field untouched.
type Invoice struct {
	ID         string
	BalanceDue Amount
	Status     string
	Fields     map[string]any
}

// Payment is a customer payment with an unapplied remainder
type Payment struct {
	ID           string
	UnusedAmount Amount
	PaidAmount   Amount
	Fields       map[string]any
}

// Pair is one invoice settled by one payment
type Pair struct {
	Invoice Invoice
	Payment Payment
	TDSRate float64 // 0 for exact matches
}

// Result partitions the inputs of a matching pass
type Result struct {
	Matches           []Pair
	UnmatchedInvoices []Invoice
	UnmatchedPayments []Payment
}

// TDSConfig holds withholding-tax matching configuration
type TDSConfig struct {
	Rates     []float64 // Deduction buckets tried in order
	Tolerance float64   // Strict upper bound on |unused - expected|
}

// DefaultTDSConfig returns the standard deduction buckets with a one unit tolerance
func DefaultTDSConfig() TDSConfig {
	return TDSConfig{
		Rates:     []float64{0.01, 0.02, 0.03, 0.055, 0.10, 0.15},
		Tolerance: 1,
	}
}

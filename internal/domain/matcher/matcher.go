// Package matcher pairs overdue invoices with unused payments.
//
// The matcher is greedy and first-fit:
//   - Invoices are processed in input order
//   - Each invoice takes the first still-available payment whose unused
//     amount equals its balance due exactly (no tolerance)
//   - A payment settles at most one invoice
//
// Example usage:
//
//	result := matcher.Match(invoices, payments)
//	for _, pair := range result.Matches {
//		fmt.Println(pair.Invoice.ID, "->", pair.Payment.ID)
//	}
package matcher

// Match pairs invoices with payments by exact amount equality.
// The input slices are never modified.
func Match(invoices []Invoice, payments []Payment) *Result {
	return matchWith(invoices, payments, func(inv Invoice, p Payment) (bool, float64) {
		return p.UnusedAmount.Equal(inv.BalanceDue), 0
	})
}

// acceptFunc decides whether a payment settles an invoice and with which TDS rate
type acceptFunc func(inv Invoice, p Payment) (bool, float64)

// matchWith runs the first-fit pass with a pluggable acceptance rule.
// Consumed payments are tracked by index so scanning the remaining payments
// in input order is the same as scanning a list with matches removed.
func matchWith(invoices []Invoice, payments []Payment, accept acceptFunc) *Result {
	result := &Result{
		Matches:           make([]Pair, 0),
		UnmatchedInvoices: make([]Invoice, 0),
		UnmatchedPayments: make([]Payment, 0),
	}

	consumed := make([]bool, len(payments))

	for _, inv := range invoices {
		found := -1
		var rate float64

		for j, p := range payments {
			if consumed[j] {
				continue
			}
			if ok, r := accept(inv, p); ok {
				found = j
				rate = r
				break
			}
		}

		if found == -1 {
			result.UnmatchedInvoices = append(result.UnmatchedInvoices, inv)
			continue
		}

		consumed[found] = true
		result.Matches = append(result.Matches, Pair{
			Invoice: inv,
			Payment: payments[found],
			TDSRate: rate,
		})
	}

	for j, p := range payments {
		if !consumed[j] {
			result.UnmatchedPayments = append(result.UnmatchedPayments, p)
		}
	}

	return result
}

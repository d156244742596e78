// Package selector narrows scanned records down to the ones worth matching:
// invoices that are overdue and payments that still have money left to apply.
package selector

import (
	"strings"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
)

// OverdueInvoices returns the invoices whose status mentions "overdue",
// in input order.
func OverdueInvoices(invoices []matcher.Invoice) []matcher.Invoice {
	out := make([]matcher.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if IsOverdue(inv) {
			out = append(out, inv)
		}
	}
	return out
}

// UnusedPayments returns the payments with a positive unused amount, in input order.
func UnusedPayments(payments []matcher.Payment) []matcher.Payment {
	out := make([]matcher.Payment, 0, len(payments))
	for _, p := range payments {
		if HasUnusedAmount(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsOverdue reports whether the invoice status contains "overdue" in any case
func IsOverdue(inv matcher.Invoice) bool {
	return strings.Contains(strings.ToLower(inv.Status), "overdue")
}

// HasUnusedAmount reports whether part of the payment is still unapplied
func HasUnusedAmount(p matcher.Payment) bool {
	return p.UnusedAmount.Usable() && p.UnusedAmount.Value > 0
}

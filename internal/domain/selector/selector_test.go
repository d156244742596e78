package selector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
)

func TestOverdueInvoices(t *testing.T) {
	invoices := []matcher.Invoice{
		{ID: "INV-1", Status: "Overdue", BalanceDue: matcher.Some(10)},
		{ID: "INV-2", Status: "Paid", BalanceDue: matcher.Some(20)},
		{ID: "INV-3", Status: "OVERDUE BY 12 DAYS", BalanceDue: matcher.Some(30)},
		{ID: "INV-4", Status: "", BalanceDue: matcher.Some(40)},
		{ID: "INV-5", Status: "overdue"},
	}

	got := OverdueInvoices(invoices)

	ids := make([]string, 0, len(got))
	for _, inv := range got {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []string{"INV-1", "INV-3", "INV-5"}, ids)
	assert.Len(t, invoices, 5, "input should be untouched")
}

func TestUnusedPayments(t *testing.T) {
	payments := []matcher.Payment{
		{ID: "PAY-1", UnusedAmount: matcher.Some(100)},
		{ID: "PAY-2", UnusedAmount: matcher.Some(0)},
		{ID: "PAY-3", UnusedAmount: matcher.Some(-5)},
		{ID: "PAY-4"},
		{ID: "PAY-5", UnusedAmount: matcher.Some(math.NaN())},
		{ID: "PAY-6", UnusedAmount: matcher.Some(0.01)},
	}

	got := UnusedPayments(payments)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"PAY-1", "PAY-6"}, ids)
}

func TestEmptyInputs(t *testing.T) {
	assert.Empty(t, OverdueInvoices(nil))
	assert.Empty(t, UnusedPayments(nil))
}

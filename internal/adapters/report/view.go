package report

import "github.com/eshaffer321/invoice-matcher/internal/domain/matcher"

// View is the serializable form of a matching result
type View struct {
	Summary           Summary      `json:"summary"`
	Matches           []MatchView  `json:"matches"`
	UnmatchedInvoices []RecordView `json:"unmatched_invoices"`
	UnmatchedPayments []RecordView `json:"unmatched_payments"`
}

// Summary counts each group
type Summary struct {
	Matched           int `json:"matched"`
	UnmatchedInvoices int `json:"unmatched_invoices"`
	UnmatchedPayments int `json:"unmatched_payments"`
}

// MatchView is one matched pair
type MatchView struct {
	Invoice RecordView `json:"invoice"`
	Payment RecordView `json:"payment"`
	TDSRate float64    `json:"tds_rate,omitempty"`
}

// RecordView is an invoice or payment with its comparison amount.
// Amount is null when the source record had none.
type RecordView struct {
	ID     string         `json:"id"`
	Amount *float64       `json:"amount"`
	Status string         `json:"status,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// NewView converts a result for serialization
func NewView(res *matcher.Result) View {
	v := View{
		Summary: Summary{
			Matched:           len(res.Matches),
			UnmatchedInvoices: len(res.UnmatchedInvoices),
			UnmatchedPayments: len(res.UnmatchedPayments),
		},
		Matches:           make([]MatchView, 0, len(res.Matches)),
		UnmatchedInvoices: make([]RecordView, 0, len(res.UnmatchedInvoices)),
		UnmatchedPayments: make([]RecordView, 0, len(res.UnmatchedPayments)),
	}

	for _, pair := range res.Matches {
		v.Matches = append(v.Matches, MatchView{
			Invoice: InvoiceView(pair.Invoice),
			Payment: PaymentView(pair.Payment),
			TDSRate: pair.TDSRate,
		})
	}
	for _, inv := range res.UnmatchedInvoices {
		v.UnmatchedInvoices = append(v.UnmatchedInvoices, InvoiceView(inv))
	}
	for _, p := range res.UnmatchedPayments {
		v.UnmatchedPayments = append(v.UnmatchedPayments, PaymentView(p))
	}

	return v
}

// InvoiceView converts one invoice
func InvoiceView(inv matcher.Invoice) RecordView {
	return RecordView{
		ID:     inv.ID,
		Amount: amountPtr(inv.BalanceDue),
		Status: inv.Status,
		Fields: inv.Fields,
	}
}

// PaymentView converts one payment
func PaymentView(p matcher.Payment) RecordView {
	return RecordView{
		ID:     p.ID,
		Amount: amountPtr(p.UnusedAmount),
		Fields: p.Fields,
	}
}

func amountPtr(a matcher.Amount) *float64 {
	if !a.Usable() {
		return nil
	}
	v := a.Value
	return &v
}

package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
)

// Money formats amounts for a locale, prefixed with a currency code
type Money struct {
	printer  *message.Printer
	currency string
}

// NewMoney creates a formatter. An unparseable locale falls back to English.
func NewMoney(locale, currency string) *Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Money{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Format renders an amount, or "N/A" when it is absent
func (m *Money) Format(a matcher.Amount) string {
	if !a.Valid {
		return "N/A"
	}
	if m.currency == "" {
		return m.printer.Sprintf("%.2f", a.Value)
	}
	return m.printer.Sprintf("%s %.2f", m.currency, a.Value)
}

package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchTDS pairs invoices with payments that were short-paid by a
// withholding-tax (TDS) deduction. A payment settles an invoice when its
// unused amount is within cfg.Tolerance of balance*(1-rate) for one of
// cfg.Rates. Payments and rates are tried in order and the first fit wins,
// the same tie rule as Match: when several payments qualify for an invoice,
// the earliest one in input order is paired.
func MatchTDS(invoices []Invoice, payments []Payment, cfg TDSConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rates := make([]decimal.Decimal, len(cfg.Rates))
	for i, r := range cfg.Rates {
		rates[i] = decimal.NewFromFloat(r)
	}
	tolerance := decimal.NewFromFloat(cfg.Tolerance)

	return matchWith(invoices, payments, func(inv Invoice, p Payment) (bool, float64) {
		if !inv.BalanceDue.Usable() || !p.UnusedAmount.Usable() {
			return false, 0
		}

		balance := decimal.NewFromFloat(inv.BalanceDue.Value)
		unused := decimal.NewFromFloat(p.UnusedAmount.Value)

		for i, rate := range rates {
			expected := balance.Sub(balance.Mul(rate))
			if unused.Sub(expected).Abs().LessThan(tolerance) {
				return true, cfg.Rates[i]
			}
		}
		return false, 0
	}), nil
}

// Validate checks that the rates and tolerance are usable
func (c TDSConfig) Validate() error {
	if len(c.Rates) == 0 {
		return fmt.Errorf("no TDS rates provided")
	}
	for i, r := range c.Rates {
		if r <= 0 || r >= 1 {
			return fmt.Errorf("invalid TDS rate at index %d: %.4f (must be between 0 and 1)", i, r)
		}
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("invalid TDS tolerance %.4f (must be positive)", c.Tolerance)
	}
	return nil
}

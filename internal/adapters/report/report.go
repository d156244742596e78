// Package report renders matching results as text, JSON or XLSX.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ErrUnknownFormat is returned for formats other than text, json and xlsx
var ErrUnknownFormat = errors.New("unknown report format")

// Sheet names used in the XLSX workbook
const (
	SheetMatches           = "Matches"
	SheetUnmatchedInvoices = "Unmatched Invoices"
	SheetUnusedPayments    = "Unused Payments"
)

// Options configures amount formatting
type Options struct {
	Locale   string
	Currency string
}

// Renderer writes results in the supported formats
type Renderer struct {
	money *Money
}

// New creates a renderer
func New(opts Options) *Renderer {
	return &Renderer{money: NewMoney(opts.Locale, opts.Currency)}
}

// Write renders res in the given format
func (r *Renderer) Write(w io.Writer, format string, res *matcher.Result) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return r.Text(w, res)
	case FormatJSON:
		return r.JSON(w, res)
	case FormatXLSX:
		return r.XLSX(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Text writes a human readable summary with one section per group
func (r *Renderer) Text(w io.Writer, res *matcher.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Matching Results")
	fmt.Fprintln(tw, strings.Repeat("-", 60))

	fmt.Fprintf(tw, "Matched Transactions (%d)\n", len(res.Matches))
	if len(res.Matches) == 0 {
		fmt.Fprintln(tw, "  No matches found.")
	}
	for _, pair := range res.Matches {
		line := fmt.Sprintf("  %s\t%s\t<-\t%s\t%s",
			pair.Invoice.ID, r.money.Format(pair.Invoice.BalanceDue),
			pair.Payment.ID, r.money.Format(pair.Payment.UnusedAmount))
		if pair.TDSRate > 0 {
			line += fmt.Sprintf("\tTDS %.2f%%", pair.TDSRate*100)
		}
		fmt.Fprintln(tw, line)
	}

	fmt.Fprintf(tw, "\nUnmatched Invoices (%d)\n", len(res.UnmatchedInvoices))
	if len(res.UnmatchedInvoices) == 0 {
		fmt.Fprintln(tw, "  All overdue invoices have been matched.")
	}
	for _, inv := range res.UnmatchedInvoices {
		status := inv.Status
		if status == "" {
			status = "N/A"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", inv.ID, status, r.money.Format(inv.BalanceDue))
	}

	fmt.Fprintf(tw, "\nUnused Payments Remaining (%d)\n", len(res.UnmatchedPayments))
	if len(res.UnmatchedPayments) == 0 {
		fmt.Fprintln(tw, "  No unused payments remaining.")
	}
	for _, p := range res.UnmatchedPayments {
		fmt.Fprintf(tw, "  %s\tpaid %s\tunused %s\n", p.ID, r.money.Format(p.PaidAmount), r.money.Format(p.UnusedAmount))
	}

	return tw.Flush()
}

// JSON writes the result view as indented JSON
func (r *Renderer) JSON(w io.Writer, res *matcher.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewView(res))
}

// XLSX writes a workbook with one sheet per group
func (r *Renderer) XLSX(w io.Writer, res *matcher.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetMatches); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetUnmatchedInvoices, SheetUnusedPayments} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	matches := [][]any{{"Invoice ID", "Balance Due", "Payment ID", "Unused Amount", "TDS Rate"}}
	for _, pair := range res.Matches {
		matches = append(matches, []any{
			pair.Invoice.ID, cellAmount(pair.Invoice.BalanceDue),
			pair.Payment.ID, cellAmount(pair.Payment.UnusedAmount),
			pair.TDSRate,
		})
	}

	invoices := [][]any{{"Invoice ID", "Status", "Balance Due"}}
	for _, inv := range res.UnmatchedInvoices {
		invoices = append(invoices, []any{inv.ID, inv.Status, cellAmount(inv.BalanceDue)})
	}

	payments := [][]any{{"Payment ID", "Paid Amount", "Unused Amount"}}
	for _, p := range res.UnmatchedPayments {
		payments = append(payments, []any{p.ID, cellAmount(p.PaidAmount), cellAmount(p.UnusedAmount)})
	}

	for sheet, rows := range map[string][][]any{
		SheetMatches:           matches,
		SheetUnmatchedInvoices: invoices,
		SheetUnusedPayments:    payments,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cellAmount leaves the cell blank for absent amounts
func cellAmount(a matcher.Amount) any {
	if !a.Usable() {
		return ""
	}
	return a.Value
}

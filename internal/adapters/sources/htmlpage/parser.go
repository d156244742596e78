// Package htmlpage scrapes invoice and payment tables out of a saved
// invoicing dashboard page.
//
// Invoice rows live under "#invoice tbody tr.show_hover" and carry one
// td[data-test-title] cell per column. Payment rows live under
// "#customer_payment tbody tr.show_hover". Parsing is pure: bytes in,
// records out.
package htmlpage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
)

// ErrEmptyDocument is returned when there is no HTML to parse
var ErrEmptyDocument = errors.New("html document is empty")

const (
	invoiceRowSelector = "#invoice tbody tr.show_hover"
	paymentRowSelector = "#customer_payment tbody tr.show_hover"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]+`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// Page holds the records found on one page
type Page struct {
	Invoices []matcher.Invoice
	Payments []matcher.Payment
}

// ParseReader reads the whole document from r and parses it
func ParseReader(r io.Reader) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return Parse(data)
}

// Parse extracts invoices and payments from the page HTML.
// Rows missing an ID or a readable amount are skipped.
func Parse(html []byte) (*Page, error) {
	if len(bytes.TrimSpace(html)) == 0 {
		return nil, ErrEmptyDocument
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return &Page{
		Invoices: parseInvoices(doc),
		Payments: parsePayments(doc),
	}, nil
}

func parseInvoices(doc *goquery.Document) []matcher.Invoice {
	invoices := make([]matcher.Invoice, 0)

	doc.Find(invoiceRowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td[data-test-title]")
		if cells.Length() == 0 {
			return
		}

		fields := make(map[string]any, cells.Length()+1)
		cells.Each(func(_ int, cell *goquery.Selection) {
			key, _ := cell.Attr("data-test-title")
			fields[ReadableKey(key)] = cellText(cell)
		})

		number, _ := fields["Invoice Number"].(string)
		formatted, _ := fields["Balance Formatted"].(string)
		if number == "" || formatted == "" {
			return
		}

		balance, ok := ParseAmount(formatted)
		if !ok {
			return
		}

		delete(fields, "Invoice Number")
		fields["Invoice ID"] = number
		fields["Balance Due"] = balance

		status, _ := fields["Status"].(string)
		invoices = append(invoices, matcher.Invoice{
			ID:         number,
			BalanceDue: matcher.Some(balance),
			Status:     status,
			Fields:     fields,
		})
	})

	return invoices
}

func parsePayments(doc *goquery.Document) []matcher.Payment {
	payments := make([]matcher.Payment, 0)

	doc.Find(paymentRowSelector).Each(func(_ int, row *goquery.Selection) {
		numberCell := row.Find(`td[data-test-title="payment_number"]`).First()
		amountCell := row.Find(`td[data-test-title="amount_formatted"] a`).First()
		unusedCell := row.Find(`td[data-test-title="unused_amount_formatted"] a`).First()
		if numberCell.Length() == 0 || amountCell.Length() == 0 || unusedCell.Length() == 0 {
			return
		}

		id := normSpace(numberCell.Text())
		paid, ok := ParseAmount(amountCell.Text())
		if id == "" || !ok {
			return
		}

		fields := map[string]any{
			"Payment ID":  id,
			"Paid Amount": paid,
		}

		// An unreadable unused amount keeps the row but can never match
		unused := matcher.None()
		if v, ok := ParseAmount(unusedCell.Text()); ok {
			unused = matcher.Some(v)
			fields["Unused Amount"] = v
		}

		payments = append(payments, matcher.Payment{
			ID:           id,
			UnusedAmount: unused,
			PaidAmount:   matcher.Some(paid),
			Fields:       fields,
		})
	})

	return payments
}

// ParseAmount strips currency symbols and separators and reads the leading
// number, so "₹1,234.50" and "$ 1,234.50 USD" both give 1234.5.
func ParseAmount(s string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ReadableKey turns "balance_formatted" into "Balance Formatted"
func ReadableKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// cellText prefers the text of the cell's link, as the dashboard wraps most values in one
func cellText(cell *goquery.Selection) string {
	if link := cell.Find("a").First(); link.Length() > 0 {
		return normSpace(link.Text())
	}
	return normSpace(cell.Text())
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

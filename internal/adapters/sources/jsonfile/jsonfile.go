// Package jsonfile reads invoice and payment records from JSON exports.
//
// Records are plain JSON objects keyed by source labels such as
// "Balance Due" or "Unused Amount". Every key is kept in the record's
// Fields map. An amount that is missing or not a JSON number is treated
// as absent, so the record will never match.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
)

// ErrUnsupportedShape is returned when the document is neither an array of
// records nor an object with "invoices" and/or "payments" arrays.
var ErrUnsupportedShape = errors.New("unsupported JSON shape")

// Labels names the source fields read from each record
type Labels struct {
	InvoiceID    string
	BalanceDue   string
	Status       string
	PaymentID    string
	UnusedAmount string
	PaidAmount   string
}

// DefaultLabels returns the labels used by the invoicing app export
func DefaultLabels() Labels {
	return Labels{
		InvoiceID:    "Invoice ID",
		BalanceDue:   "Balance Due",
		Status:       "Status",
		PaymentID:    "Payment ID",
		UnusedAmount: "Unused Amount",
		PaidAmount:   "Paid Amount",
	}
}

// Bundle holds both record sets from a single document
type Bundle struct {
	Invoices []matcher.Invoice
	Payments []matcher.Payment
}

type bundleDoc struct {
	Invoices []map[string]any `json:"invoices"`
	Payments []map[string]any `json:"payments"`
}

// DecodeInvoices reads a JSON array of invoice records
func DecodeInvoices(r io.Reader, labels Labels) ([]matcher.Invoice, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return InvoicesFromFields(raw, labels), nil
}

// DecodePayments reads a JSON array of payment records
func DecodePayments(r io.Reader, labels Labels) ([]matcher.Payment, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return PaymentsFromFields(raw, labels), nil
}

// DecodeBundle reads an object of the form {"invoices": [...], "payments": [...]}
func DecodeBundle(r io.Reader, labels Labels) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var doc bundleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedShape, err)
		}
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if doc.Invoices == nil && doc.Payments == nil {
		return nil, fmt.Errorf("%w: expected \"invoices\" or \"payments\"", ErrUnsupportedShape)
	}

	return &Bundle{
		Invoices: InvoicesFromFields(doc.Invoices, labels),
		Payments: PaymentsFromFields(doc.Payments, labels),
	}, nil
}

// LoadInvoicesFile reads invoices from a JSON file
func LoadInvoicesFile(path string, labels Labels) ([]matcher.Invoice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	invoices, err := DecodeInvoices(f, labels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return invoices, nil
}

// LoadPaymentsFile reads payments from a JSON file
func LoadPaymentsFile(path string, labels Labels) ([]matcher.Payment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	payments, err := DecodePayments(f, labels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return payments, nil
}

// InvoicesFromFields converts decoded JSON objects into invoices
func InvoicesFromFields(raw []map[string]any, labels Labels) []matcher.Invoice {
	invoices := make([]matcher.Invoice, 0, len(raw))
	for _, fields := range raw {
		invoices = append(invoices, matcher.Invoice{
			ID:         stringField(fields, labels.InvoiceID),
			BalanceDue: amountField(fields, labels.BalanceDue),
			Status:     stringField(fields, labels.Status),
			Fields:     fields,
		})
	}
	return invoices
}

// PaymentsFromFields converts decoded JSON objects into payments
func PaymentsFromFields(raw []map[string]any, labels Labels) []matcher.Payment {
	payments := make([]matcher.Payment, 0, len(raw))
	for _, fields := range raw {
		payments = append(payments, matcher.Payment{
			ID:           stringField(fields, labels.PaymentID),
			UnusedAmount: amountField(fields, labels.UnusedAmount),
			PaidAmount:   amountField(fields, labels.PaidAmount),
			Fields:       fields,
		})
	}
	return payments
}

func amountField(fields map[string]any, key string) matcher.Amount {
	if v, ok := fields[key].(float64); ok {
		return matcher.Some(v)
	}
	return matcher.None()
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

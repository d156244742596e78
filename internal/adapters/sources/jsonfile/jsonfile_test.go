package jsonfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoices = `[
  {"Invoice ID": "INV-001", "Balance Due": 150.00, "Status": "Overdue", "Customer Name": "Acme"},
  {"Invoice ID": "INV-002", "Balance Due": "200.50", "Status": "Overdue"},
  {"Invoice ID": 3, "Status": "Paid"}
]`

const samplePayments = `[
  {"Payment ID": "PAY-101", "Unused Amount": 200.50, "Paid Amount": 500},
  {"Payment ID": "PAY-102", "Unused Amount": null}
]`

func TestDecodeInvoices(t *testing.T) {
	invoices, err := DecodeInvoices(strings.NewReader(sampleInvoices), DefaultLabels())
	require.NoError(t, err)
	require.Len(t, invoices, 3)

	assert.Equal(t, "INV-001", invoices[0].ID)
	assert.True(t, invoices[0].BalanceDue.Valid)
	assert.Equal(t, 150.0, invoices[0].BalanceDue.Value)
	assert.Equal(t, "Overdue", invoices[0].Status)
	assert.Equal(t, "Acme", invoices[0].Fields["Customer Name"])

	// String amounts are not numbers and stay absent
	assert.False(t, invoices[1].BalanceDue.Valid)

	assert.Equal(t, "3", invoices[2].ID)
	assert.False(t, invoices[2].BalanceDue.Valid)
}

func TestDecodePayments(t *testing.T) {
	payments, err := DecodePayments(strings.NewReader(samplePayments), DefaultLabels())
	require.NoError(t, err)
	require.Len(t, payments, 2)

	assert.Equal(t, "PAY-101", payments[0].ID)
	assert.Equal(t, 200.5, payments[0].UnusedAmount.Value)
	assert.Equal(t, 500.0, payments[0].PaidAmount.Value)
	assert.False(t, payments[1].UnusedAmount.Valid)
	assert.False(t, payments[1].PaidAmount.Valid)
}

func TestDecode_CustomLabels(t *testing.T) {
	labels := DefaultLabels()
	labels.InvoiceID = "id"
	labels.BalanceDue = "balanceDue"

	invoices, err := DecodeInvoices(strings.NewReader(`[{"id": "A", "balanceDue": 10}]`), labels)
	require.NoError(t, err)

	require.Len(t, invoices, 1)
	assert.Equal(t, "A", invoices[0].ID)
	assert.Equal(t, 10.0, invoices[0].BalanceDue.Value)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := DecodeInvoices(strings.NewReader(`{"not": "an array"}`), DefaultLabels())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode invoices")

	_, err = DecodePayments(strings.NewReader(`[`), DefaultLabels())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode payments")
}

func TestDecodeBundle(t *testing.T) {
	t.Run("reads both sets", func(t *testing.T) {
		doc := `{"invoices": ` + sampleInvoices + `, "payments": ` + samplePayments + `}`

		bundle, err := DecodeBundle(strings.NewReader(doc), DefaultLabels())
		require.NoError(t, err)

		assert.Len(t, bundle.Invoices, 3)
		assert.Len(t, bundle.Payments, 2)
	})

	t.Run("one set may be missing", func(t *testing.T) {
		bundle, err := DecodeBundle(strings.NewReader(`{"payments": []}`), DefaultLabels())
		require.NoError(t, err)

		assert.Empty(t, bundle.Invoices)
		assert.Empty(t, bundle.Payments)
	})

	t.Run("error - array document", func(t *testing.T) {
		_, err := DecodeBundle(strings.NewReader(sampleInvoices), DefaultLabels())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedShape)
	})

	t.Run("error - object without record sets", func(t *testing.T) {
		_, err := DecodeBundle(strings.NewReader(`{"orders": []}`), DefaultLabels())
		assert.ErrorIs(t, err, ErrUnsupportedShape)
	})
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	invPath := filepath.Join(dir, "invoices.json")
	payPath := filepath.Join(dir, "payments.json")
	require.NoError(t, os.WriteFile(invPath, []byte(sampleInvoices), 0644))
	require.NoError(t, os.WriteFile(payPath, []byte(samplePayments), 0644))

	invoices, err := LoadInvoicesFile(invPath, DefaultLabels())
	require.NoError(t, err)
	assert.Len(t, invoices, 3)

	payments, err := LoadPaymentsFile(payPath, DefaultLabels())
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	_, err = LoadInvoicesFile(filepath.Join(dir, "missing.json"), DefaultLabels())
	assert.Error(t, err)
}

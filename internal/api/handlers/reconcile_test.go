package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/invoice-matcher/internal/adapters/report"
	"github.com/eshaffer321/invoice-matcher/internal/adapters/sources/jsonfile"
	"github.com/eshaffer321/invoice-matcher/internal/api/dto"
	"github.com/eshaffer321/invoice-matcher/internal/api/handlers"
	"github.com/eshaffer321/invoice-matcher/internal/application/reconcile"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/config"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/logging"
)

// stubReconciler records the last request and returns a canned error if set
type stubReconciler struct {
	last *reconcile.Request
	err  error
	svc  *reconcile.Service
}

func (s *stubReconciler) Run(ctx context.Context, req reconcile.Request) (*reconcile.Run, error) {
	s.last = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.svc.Run(ctx, req)
}

func newStub() *stubReconciler {
	cfg := config.Default()
	return &stubReconciler{svc: reconcile.NewService(cfg.Matching, cfg.Selection, logging.Discard())}
}

func newRouter(rec handlers.Reconciler) *gin.Engine {
	h := handlers.NewReconcileHandler(rec, jsonfile.DefaultLabels(), report.New(report.Options{Currency: "USD"}), logging.Discard())
	r := gin.New()
	r.POST("/api/reconcile", h.ReconcileJSON)
	r.POST("/api/reconcile/html", h.ReconcileHTML)
	return r
}

const workedExample = `{
  "invoices": [
    {"Invoice ID": "INV-001", "Balance Due": 150.00, "Status": "Overdue"},
    {"Invoice ID": "INV-002", "Balance Due": 200.50, "Status": "Overdue"},
    {"Invoice ID": "INV-003", "Balance Due": 75.00, "Status": "Overdue"}
  ],
  "payments": [
    {"Payment ID": "PAY-101", "Unused Amount": 200.50},
    {"Payment ID": "PAY-102", "Unused Amount": 50.00},
    {"Payment ID": "PAY-103", "Unused Amount": 150.00}
  ]
}`

func TestReconcileHandler_ReconcileJSON(t *testing.T) {
	t.Run("returns matches and leftovers", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(workedExample))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var response dto.ReconcileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.NotEmpty(t, response.RunID)
		assert.Equal(t, "exact", response.Mode)
		assert.Equal(t, 3, response.Input.Invoices)
		assert.Equal(t, 2, response.Summary.Matched)
		require.Len(t, response.Matches, 2)
		assert.Equal(t, "INV-001", response.Matches[0].Invoice.ID)
		assert.Equal(t, "PAY-103", response.Matches[0].Payment.ID)
		require.Len(t, response.UnmatchedInvoices, 1)
		assert.Equal(t, "INV-003", response.UnmatchedInvoices[0].ID)
		require.Len(t, response.UnmatchedPayments, 1)
		assert.Equal(t, "PAY-102", response.UnmatchedPayments[0].ID)
	})

	t.Run("passes options through", func(t *testing.T) {
		stub := newStub()
		r := newRouter(stub)

		body := `{"invoices": [], "payments": [], "mode": "tds", "select_overdue": false}`
		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(body))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.last)
		assert.Equal(t, "tds", stub.last.Mode)
		require.NotNil(t, stub.last.SelectOverdue)
		assert.False(t, *stub.last.SelectOverdue)
		assert.Nil(t, stub.last.SelectUnused)
	})

	t.Run("text format", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile?format=text", strings.NewReader(workedExample))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "Matched Transactions (2)")
	})

	t.Run("xlsx format", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile?format=xlsx", strings.NewReader(workedExample))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
		assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
	})

	t.Run("error - malformed body", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(`{"invoices": `))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeBadRequest, apiErr.Code)
	})

	t.Run("error - missing payments", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(`{"invoices": []}`))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - unknown mode", func(t *testing.T) {
		stub := newStub()
		r := newRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile",
			strings.NewReader(`{"invoices": [], "payments": [], "mode": "fuzzy"}`))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeValidation, apiErr.Code)
		assert.Nil(t, stub.last, "service should not run")
	})

	t.Run("error - service failure", func(t *testing.T) {
		stub := newStub()
		stub.err = errors.New("boom")
		r := newRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(workedExample))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeInternalError, apiErr.Code)
		assert.NotContains(t, apiErr.Message, "boom")
	})
}

const dashboardPage = `<html><body>
<table id="invoice"><tbody>
  <tr class="show_hover">
    <td data-test-title="invoice_number"><a>INV-9</a></td>
    <td data-test-title="status">Overdue</td>
    <td data-test-title="balance_formatted">$42.00</td>
  </tr>
</tbody></table>
<table id="customer_payment"><tbody>
  <tr class="show_hover">
    <td data-test-title="payment_number">PAY-9</td>
    <td data-test-title="amount_formatted"><a>$42.00</a></td>
    <td data-test-title="unused_amount_formatted"><a>$42.00</a></td>
  </tr>
</tbody></table>
</body></html>`

func TestReconcileHandler_ReconcileHTML(t *testing.T) {
	t.Run("scrapes and matches the page", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile/html", strings.NewReader(dashboardPage))
		req.Header.Set("Content-Type", "text/html")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var response dto.ReconcileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Matches, 1)
		assert.Equal(t, "INV-9", response.Matches[0].Invoice.ID)
		assert.Equal(t, "PAY-9", response.Matches[0].Payment.ID)
	})

	t.Run("reads options from the query string", func(t *testing.T) {
		stub := newStub()
		r := newRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile/html?mode=tds&select_unused=false", strings.NewReader(dashboardPage))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.last)
		assert.Equal(t, "tds", stub.last.Mode)
		require.NotNil(t, stub.last.SelectUnused)
		assert.False(t, *stub.last.SelectUnused)
		assert.Nil(t, stub.last.SelectOverdue)
	})

	t.Run("error - empty body", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile/html", strings.NewReader(""))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - unknown mode", func(t *testing.T) {
		r := newRouter(newStub())

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile/html?mode=fuzzy", strings.NewReader(dashboardPage))
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

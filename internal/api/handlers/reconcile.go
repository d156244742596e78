package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/invoice-matcher/internal/adapters/report"
	"github.com/eshaffer321/invoice-matcher/internal/adapters/sources/htmlpage"
	"github.com/eshaffer321/invoice-matcher/internal/adapters/sources/jsonfile"
	"github.com/eshaffer321/invoice-matcher/internal/api/dto"
	"github.com/eshaffer321/invoice-matcher/internal/application/reconcile"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/config"
)

// MaxPageBytes caps the size of an uploaded HTML page.
const MaxPageBytes = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Reconciler runs a reconciliation.
type Reconciler interface {
	Run(ctx context.Context, req reconcile.Request) (*reconcile.Run, error)
}

// ReconcileHandler handles reconciliation requests.
type ReconcileHandler struct {
	svc      Reconciler
	labels   jsonfile.Labels
	renderer *report.Renderer
	logger   *slog.Logger
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(svc Reconciler, labels jsonfile.Labels, renderer *report.Renderer, logger *slog.Logger) *ReconcileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileHandler{
		svc:      svc,
		labels:   labels,
		renderer: renderer,
		logger:   logger,
	}
}

// ReconcileJSON handles POST /api/reconcile.
func (h *ReconcileHandler) ReconcileJSON(c *gin.Context) {
	var body dto.ReconcileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}
	if !validMode(body.Mode) {
		WriteError(c, http.StatusBadRequest, dto.ValidationError("mode must be \"exact\" or \"tds\""))
		return
	}

	h.run(c, reconcile.Request{
		Invoices:      jsonfile.InvoicesFromFields(body.Invoices, h.labels),
		Payments:      jsonfile.PaymentsFromFields(body.Payments, h.labels),
		Mode:          body.Mode,
		SelectOverdue: body.SelectOverdue,
		SelectUnused:  body.SelectUnused,
	})
}

// ReconcileHTML handles POST /api/reconcile/html. The body is a saved
// dashboard page; options come from the query string.
func (h *ReconcileHandler) ReconcileHTML(c *gin.Context) {
	mode := c.Query("mode")
	if !validMode(mode) {
		WriteError(c, http.StatusBadRequest, dto.ValidationError("mode must be \"exact\" or \"tds\""))
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxPageBytes+1))
	if err != nil {
		WriteError(c, http.StatusBadRequest, dto.BadRequestError("could not read request body"))
		return
	}
	if len(data) > MaxPageBytes {
		WriteError(c, http.StatusRequestEntityTooLarge, dto.BadRequestError("page is too large"))
		return
	}

	page, err := htmlpage.Parse(data)
	if err != nil {
		if errors.Is(err, htmlpage.ErrEmptyDocument) {
			WriteError(c, http.StatusBadRequest, dto.BadRequestError("request body is empty"))
			return
		}
		h.logger.Error("failed to parse page", "error", err)
		writeInternalError(c)
		return
	}

	h.run(c, reconcile.Request{
		Invoices:      page.Invoices,
		Payments:      page.Payments,
		Mode:          mode,
		SelectOverdue: ParseBoolQuery(c, "select_overdue"),
		SelectUnused:  ParseBoolQuery(c, "select_unused"),
	})
}

func (h *ReconcileHandler) run(c *gin.Context, req reconcile.Request) {
	run, err := h.svc.Run(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownMode) {
			WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
			return
		}
		h.logger.Error("reconciliation failed", "error", err)
		writeInternalError(c)
		return
	}

	switch strings.ToLower(c.Query("format")) {
	case report.FormatXLSX:
		var buf bytes.Buffer
		if err := h.renderer.XLSX(&buf, run.Result); err != nil {
			h.logger.Error("failed to render workbook", "run_id", run.ID, "error", err)
			writeInternalError(c)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="reconciliation-`+run.ID+`.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	case report.FormatText:
		var buf bytes.Buffer
		if err := h.renderer.Text(&buf, run.Result); err != nil {
			writeInternalError(c)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	default:
		c.JSON(http.StatusOK, toReconcileResponse(run))
	}
}

func toReconcileResponse(run *reconcile.Run) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		RunID:      run.ID,
		Mode:       run.Mode,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: float64(run.Duration.Microseconds()) / 1000,
		Input: dto.InputSummary{
			Invoices:        run.InputInvoices,
			Payments:        run.InputPayments,
			SkippedInvoices: run.SkippedInvoices,
			SkippedPayments: run.SkippedPayments,
		},
		View: report.NewView(run.Result),
	}
}

func validMode(mode string) bool {
	return mode == "" || mode == config.ModeExact || mode == config.ModeTDS
}

package dto

import (
	"time"

	"github.com/eshaffer321/invoice-matcher/internal/adapters/report"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// InputSummary describes what went into a run before matching.
type InputSummary struct {
	Invoices        int `json:"invoices"`
	Payments        int `json:"payments"`
	SkippedInvoices int `json:"skipped_invoices"`
	SkippedPayments int `json:"skipped_payments"`
}

// ReconcileResponse is returned by the reconcile endpoints.
type ReconcileResponse struct {
	RunID      string       `json:"run_id"`
	Mode       string       `json:"mode"`
	StartedAt  string       `json:"started_at"`
	DurationMS float64      `json:"duration_ms"`
	Input      InputSummary `json:"input"`
	report.View
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

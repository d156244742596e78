// Package reconcile runs one reconciliation: select the records worth
// matching, match them, then log and record metrics for the run.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
	"github.com/eshaffer321/invoice-matcher/internal/domain/selector"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/config"
	"github.com/eshaffer321/invoice-matcher/internal/observability"
)

// ErrUnknownMode is returned when a request names a matching mode that does not exist
var ErrUnknownMode = errors.New("unknown matching mode")

// Request holds the records and options for one run.
// Nil selection flags fall back to the service defaults.
type Request struct {
	Invoices      []matcher.Invoice
	Payments      []matcher.Payment
	Mode          string // "exact" or "tds"; empty uses the configured mode
	SelectOverdue *bool
	SelectUnused  *bool
}

// Run describes a finished reconciliation
type Run struct {
	ID              string
	Mode            string
	StartedAt       time.Time
	Duration        time.Duration
	InputInvoices   int
	InputPayments   int
	SkippedInvoices int // dropped by the overdue filter
	SkippedPayments int // dropped by the unused-amount filter
	Result          *matcher.Result
}

// Service runs reconciliations with a fixed configuration.
// It holds no mutable state, so Run is safe for concurrent use.
type Service struct {
	matching  config.MatchingConfig
	selection config.SelectionConfig
	logger    *slog.Logger
}

// NewService creates a reconcile service
func NewService(matching config.MatchingConfig, selection config.SelectionConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		matching:  matching,
		selection: selection,
		logger:    logger,
	}
}

// Run selects, matches and reports on the given records
func (s *Service) Run(ctx context.Context, req Request) (*Run, error) {
	mode := req.Mode
	if mode == "" {
		mode = s.matching.Mode
	}

	if err := ctx.Err(); err != nil {
		observability.ObserveRunFailure(metricMode(mode))
		return nil, err
	}

	run := &Run{
		ID:            uuid.NewString(),
		Mode:          mode,
		StartedAt:     time.Now(),
		InputInvoices: len(req.Invoices),
		InputPayments: len(req.Payments),
	}
	logger := s.logger.With("run_id", run.ID)

	invoices := req.Invoices
	if boolOr(req.SelectOverdue, s.selection.OverdueOnly) {
		invoices = selector.OverdueInvoices(invoices)
	}
	payments := req.Payments
	if boolOr(req.SelectUnused, s.selection.UnusedOnly) {
		payments = selector.UnusedPayments(payments)
	}
	run.SkippedInvoices = len(req.Invoices) - len(invoices)
	run.SkippedPayments = len(req.Payments) - len(payments)

	if len(invoices) == 0 {
		logger.Warn("No invoices to match", "input_invoices", run.InputInvoices, "skipped", run.SkippedInvoices)
	}

	logger.Debug("Starting reconciliation",
		"mode", mode,
		"invoices", len(invoices),
		"payments", len(payments))

	result, err := s.match(mode, invoices, payments)
	if err != nil {
		observability.ObserveRunFailure(metricMode(mode))
		logger.Error("Reconciliation failed", "mode", mode, "error", err)
		return nil, err
	}

	run.Result = result
	run.Duration = time.Since(run.StartedAt)

	for _, pair := range result.Matches {
		logger.Debug("Matched invoice",
			"invoice_id", pair.Invoice.ID,
			"payment_id", pair.Payment.ID,
			"amount", pair.Invoice.BalanceDue.Value,
			"tds_rate", pair.TDSRate)
	}

	logger.Info("Reconciliation complete",
		"mode", mode,
		"matched", len(result.Matches),
		"unmatched_invoices", len(result.UnmatchedInvoices),
		"unmatched_payments", len(result.UnmatchedPayments),
		"skipped_invoices", run.SkippedInvoices,
		"skipped_payments", run.SkippedPayments,
		"duration", run.Duration)

	observability.ObserveRun(mode, run.Duration, observability.RunCounts{
		Matched:           len(result.Matches),
		UnmatchedInvoices: len(result.UnmatchedInvoices),
		UnmatchedPayments: len(result.UnmatchedPayments),
		SkippedInvoices:   run.SkippedInvoices,
		SkippedPayments:   run.SkippedPayments,
	})

	return run, nil
}

func (s *Service) match(mode string, invoices []matcher.Invoice, payments []matcher.Payment) (*matcher.Result, error) {
	switch mode {
	case config.ModeExact:
		return matcher.Match(invoices, payments), nil
	case config.ModeTDS:
		result, err := matcher.MatchTDS(invoices, payments, matcher.TDSConfig{
			Rates:     s.matching.TDSRates,
			Tolerance: s.matching.TDSTolerance,
		})
		if err != nil {
			return nil, fmt.Errorf("tds matching: %w", err)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// metricMode keeps request-supplied mode names out of metric labels
func metricMode(mode string) string {
	switch mode {
	case config.ModeExact, config.ModeTDS:
		return mode
	default:
		return "unknown"
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/eshaffer321/invoice-matcher/internal/adapters/report"
	"github.com/eshaffer321/invoice-matcher/internal/adapters/sources/htmlpage"
	"github.com/eshaffer321/invoice-matcher/internal/adapters/sources/jsonfile"
	"github.com/eshaffer321/invoice-matcher/internal/application/reconcile"
	"github.com/eshaffer321/invoice-matcher/internal/domain/matcher"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/config"
	"github.com/eshaffer321/invoice-matcher/internal/infrastructure/logging"
)

// LabelsFromConfig maps configured record labels onto the JSON source
func LabelsFromConfig(cfg config.RecordsConfig) jsonfile.Labels {
	return jsonfile.Labels{
		InvoiceID:    cfg.InvoiceIDField,
		BalanceDue:   cfg.BalanceDueField,
		Status:       cfg.StatusField,
		PaymentID:    cfg.PaymentIDField,
		UnusedAmount: cfg.UnusedAmountField,
		PaidAmount:   cfg.PaidAmountField,
	}
}

// RunReconcile loads records, runs one reconciliation and writes the report.
// Logs go to stderr so stdout carries only the report.
func RunReconcile(ctx context.Context, cfg *config.Config, flags *ReconcileFlags, stdout, stderr io.Writer) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerTo(stderr, loggingCfg).With("system", "reconcile")

	invoices, payments, err := loadRecords(flags, LabelsFromConfig(cfg.Records))
	if err != nil {
		return err
	}
	logger.Info("Loaded records", "invoices", len(invoices), "payments", len(payments))

	mode := flags.Mode
	if mode == "" {
		mode = cfg.Matching.Mode
	}

	req := reconcile.Request{
		Invoices: invoices,
		Payments: payments,
		Mode:     mode,
	}
	if flags.All {
		off := false
		req.SelectOverdue = &off
		req.SelectUnused = &off
	}

	svc := reconcile.NewService(cfg.Matching, cfg.Selection, logger)
	run, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	renderer := report.New(report.Options{Locale: cfg.Report.Locale, Currency: cfg.Report.Currency})

	out := stdout
	if flags.OutPath != "" {
		f, err := os.Create(flags.OutPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		out = f
	}

	if flags.Format == report.FormatText {
		PrintHeader(out, mode, flags.All)
	}
	if err := renderer.Write(out, flags.Format, run.Result); err != nil {
		return err
	}
	if flags.Format == report.FormatText {
		PrintRunSummary(out, run)
	}

	if flags.OutPath != "" {
		logger.Info("Wrote report", "path", flags.OutPath, "format", flags.Format)
	}
	return nil
}

func loadRecords(flags *ReconcileFlags, labels jsonfile.Labels) ([]matcher.Invoice, []matcher.Payment, error) {
	if flags.PagePath != "" {
		f, err := os.Open(flags.PagePath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()

		page, err := htmlpage.ParseReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", flags.PagePath, err)
		}
		return page.Invoices, page.Payments, nil
	}

	invoices, err := jsonfile.LoadInvoicesFile(flags.InvoicesPath, labels)
	if err != nil {
		return nil, nil, err
	}
	payments, err := jsonfile.LoadPaymentsFile(flags.PaymentsPath, labels)
	if err != nil {
		return nil, nil, err
	}
	return invoices, payments, nil
}

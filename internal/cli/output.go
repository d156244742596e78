package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/invoice-matcher/internal/application/reconcile"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, mode string, all bool) {
	selection := "overdue invoices / unused payments"
	if all {
		selection = "all records"
	}
	fmt.Fprintf(w, "invoice-matcher: %s mode (%s)\n", strings.ToUpper(mode), selection)
}

// PrintRunSummary prints the one-line run summary
func PrintRunSummary(w io.Writer, run *reconcile.Run) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Matched=%d UnmatchedInvoices=%d UnusedPayments=%d Skipped=%d/%d\n",
		len(run.Result.Matches),
		len(run.Result.UnmatchedInvoices),
		len(run.Result.UnmatchedPayments),
		run.SkippedInvoices,
		run.SkippedPayments)
	fmt.Fprintf(w, "Run: %s (%s)\n", run.ID, run.Duration)
}

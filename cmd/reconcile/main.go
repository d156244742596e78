// Command reconcile matches invoices against payments and prints a report.
//
// Usage:
//
//	reconcile -invoices invoices.json -payments payments.json
//	reconcile -page dashboard.html -mode tds -format xlsx -out report.xlsx
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/invoice-matcher/internal/cli"
)

func main() {
	flags, err := cli.ParseReconcileFlags(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := cli.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}
	if err := cli.RunReconcile(ctx, cfg, flags, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

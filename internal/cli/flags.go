package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// ReconcileFlags are the flags of the reconcile command
type ReconcileFlags struct {
	ConfigPath   string
	InvoicesPath string
	PaymentsPath string
	PagePath     string
	Mode         string
	Format       string
	OutPath      string
	All          bool
	Verbose      bool
}

// ParseReconcileFlags parses reconcile flags from args (without the program name)
func ParseReconcileFlags(args []string, stderr io.Writer) (*ReconcileFlags, error) {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	fs.SetOutput(stderr)

	flags := &ReconcileFlags{}
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to config file")
	fs.StringVar(&flags.InvoicesPath, "invoices", "", "JSON file with invoice records")
	fs.StringVar(&flags.PaymentsPath, "payments", "", "JSON file with payment records")
	fs.StringVar(&flags.PagePath, "page", "", "Saved dashboard HTML page (instead of -invoices/-payments)")
	fs.StringVar(&flags.Mode, "mode", "", "Matching mode: exact or tds (default from config)")
	fs.StringVar(&flags.Format, "format", "text", "Output format: text, json or xlsx")
	fs.StringVar(&flags.OutPath, "out", "", "Write the report to this file instead of stdout")
	fs.BoolVar(&flags.All, "all", false, "Match every record (skip overdue/unused filtering)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.Format = strings.ToLower(strings.TrimSpace(flags.Format))
	flags.Mode = strings.ToLower(strings.TrimSpace(flags.Mode))
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	return flags, nil
}

// Validate checks that exactly one record source was given
func (f *ReconcileFlags) Validate() error {
	hasFiles := f.InvoicesPath != "" || f.PaymentsPath != ""
	switch {
	case f.PagePath != "" && hasFiles:
		return errors.New("use either -page or -invoices/-payments, not both")
	case f.PagePath == "" && (f.InvoicesPath == "" || f.PaymentsPath == ""):
		return errors.New("both -invoices and -payments are required (or use -page)")
	case strings.EqualFold(f.Format, "xlsx") && f.OutPath == "":
		return fmt.Errorf("-format xlsx needs -out")
	}
	return nil
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	Port       int
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags(args []string, stderr io.Writer) (*ServeFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	flags := &ServeFlags{}
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to config file")
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (default from config)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// Command api serves the reconciliation HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/invoice-matcher/internal/cli"
)

func main() {
	flags, err := cli.ParseServeFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := cli.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}
	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoicekit/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicekit",
	Short: "invoicekit - turn invoice documents into structured data",
	Long: `invoicekit reads invoices (plain text, PDF or scanned images) and extracts
structured data: invoice metadata, vendor and customer details, categorized
line items and summary totals.

Extraction uses a generative model (Gemini or OpenAI) when configured and
falls back to pattern based extraction otherwise. Configuration is read from
the environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"github.com/spf13/cobra"

	"invoicekit/internal/invoice"
	"invoicekit/internal/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show extraction and OCR configuration",
	Long: `Print the smart extraction setup (provider, model, availability, fallback
and confidence threshold), the OCR provider and any configuration warnings as
JSON. No document is processed and no remote call is made.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// StatusOutput is the JSON printed by the status command
type StatusOutput struct {
	Extraction  invoice.Status `json:"extraction"`
	OCRProvider string         `json:"ocr_provider"`
	SheetURLSet bool           `json:"google_sheet_configured"`
	Warnings    []string       `json:"warnings,omitempty"`
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("status")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	orchestrator, release := newOrchestrator(cmd.Context(), cfg, log)
	defer release()

	return writeJSON(StatusOutput{
		Extraction:  orchestrator.Status(),
		OCRProvider: cfg.OCRProvider,
		SheetURLSet: cfg.GoogleSheetURL != "",
		Warnings:    cfg.Warnings(),
	}, "", log)
}

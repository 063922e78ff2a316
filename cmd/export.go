package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"invoicekit/internal/booking"
	"invoicekit/internal/export"
	"invoicekit/internal/logger"
	"invoicekit/internal/sheets"
	"invoicekit/pkg/models"
	"invoicekit/pkg/services"
)

const (
	formatXLSX   = "xlsx"
	formatSheets = "sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export [files...]",
	Short: "Extract invoices and export their line items to XLSX or Google Sheets",
	Long: `Extract every given document and export the line items (or, with
--accounting, the accounting entries) as a table.

The xlsx format writes a workbook to --output. The sheets format appends the
rows to the worksheet of the Google Sheet named by GOOGLE_SHEET_URL, creating
the worksheet and its header row when needed.

Documents that fail are reported and skipped; the export fails only when no
document could be extracted.`,
	Example: `  # Write line items of several invoices to a workbook
  invoicekit export a.pdf b.txt -o line-items.xlsx

  # Append accounting entries to a Google Sheet
  invoicekit export invoices/*.pdf --format sheets --accounting --sheet Entries`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", formatXLSX, "Export format: xlsx or sheets")
	exportCmd.Flags().StringP("output", "o", "line_items.xlsx", "Workbook path for the xlsx format")
	exportCmd.Flags().String("sheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	exportCmd.Flags().Bool("accounting", false, "Export accounting entries instead of line items")
	exportCmd.Flags().Int("timeout", 600, "Processing timeout in seconds for all files")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	sheetName, _ := cmd.Flags().GetString("sheet")
	accounting, _ := cmd.Flags().GetBool("accounting")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	format = strings.ToLower(format)
	if format != formatXLSX && format != formatSheets {
		return fmt.Errorf("unknown format %q, use xlsx or sheets", format)
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if sheetName == "" {
		sheetName = cfg.GoogleSheetWorksheet
	}
	if format == formatSheets && cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL must be set for the sheets format")
	}

	ctx, cancel := createContext(timeoutSecs, log)
	defer cancel()

	orchestrator, release := newOrchestrator(ctx, cfg, log)
	defer release()

	var (
		invoices []*models.StructuredInvoiceData
		failed   int
	)
	for _, path := range args {
		fileLog := log.With().Str("file", path).Logger()

		text, err := readDocumentText(ctx, cfg, path, fileLog)
		if err != nil {
			failed++
			fileLog.Error().Err(handleDocumentError(err, fileLog)).Msg("Skipping document")
			continue
		}

		data, method := orchestrator.Extract(ctx, text.Text)
		if data == nil {
			failed++
			fileLog.Error().Str("method", method).Msg("No invoice data extracted, skipping document")
			continue
		}
		invoices = append(invoices, data)
	}

	if len(invoices) == 0 {
		return fmt.Errorf("none of the %d documents could be extracted", len(args))
	}

	table := export.LineItemTable(invoices...)
	if accounting {
		ledger := booking.NewLedger()
		batches := make([]*services.EntryBatch, 0, len(invoices))
		for _, data := range invoices {
			batch, err := ledger.Book(data)
			if err != nil {
				return err
			}
			batches = append(batches, batch)
		}
		table = export.EntryTable(batches...)
	}

	log.Info().
		Int("documents", len(args)).
		Int("extracted", len(invoices)).
		Int("failed", failed).
		Int("rows", len(table.Rows)).
		Str("format", format).
		Msg("Exporting rows")

	if format == formatSheets {
		svc, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return err
		}
		return svc.AppendTable(ctx, sheetName, table)
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, sheetName, table); err != nil {
		return err
	}
	return writeOutput(buf.Bytes(), outputPath, log)
}

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"invoicekit/internal/booking"
	"invoicekit/internal/invoice"
	"invoicekit/internal/logger"
	"invoicekit/internal/ocr"
	"invoicekit/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract structured invoice data from a text, PDF or image file",
	Long: `Read an invoice document and print the extracted data as JSON.

Text is taken from plain text files directly, from the embedded text layer of
PDFs, and from OCR for scanned PDFs and images. The text is then handed to the
configured generative model. When the model is unavailable, fails or returns a
result below CONFIDENCE_THRESHOLD, pattern based extraction is used instead
(unless FALLBACK_TO_REGEX=false).

Environment variables:
  SMART_PROVIDER         - gemini (default) or openai
  GEMINI_API_KEY         - API key for Gemini
  OPENAI_API_KEY         - API key for OpenAI
  AI_EXTRACTION_ENABLED  - use the model at all (default true)
  FALLBACK_TO_REGEX      - use pattern extraction as fallback (default true)
  CONFIDENCE_THRESHOLD   - minimum confidence for model results (default 0.3)
  OCR_PROVIDER           - vision (default), documentai or none`,
	Example: `  # Extract invoice data to stdout
  invoicekit extract invoice.pdf

  # Save the result in the flat legacy format
  invoicekit extract invoice.txt --legacy -o invoice.json

  # Print accounting entries instead of the invoice record
  invoicekit extract invoice.pdf --accounting

  # Fail instead of falling back to pattern extraction
  invoicekit extract scan.png --smart-only`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("legacy", false, "Output the flat legacy invoice format")
	extractCmd.Flags().Bool("accounting", false, "Output accounting entries for the line items")
	extractCmd.Flags().Bool("smart-only", false, "Use only the model, never the pattern fallback")
	extractCmd.Flags().Int("timeout", 180, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	legacy, _ := cmd.Flags().GetBool("legacy")
	accounting, _ := cmd.Flags().GetBool("accounting")
	smartOnly, _ := cmd.Flags().GetBool("smart-only")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if legacy && accounting {
		return fmt.Errorf("--legacy and --accounting cannot be combined")
	}

	path := args[0]
	log.Info().
		Str("file", path).
		Str("output", outputPath).
		Bool("smart_only", smartOnly).
		Int("timeout", timeoutSecs).
		Msg("Starting invoice extraction")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContext(timeoutSecs, log)
	defer cancel()

	started := time.Now()
	text, err := readDocumentText(ctx, cfg, path, log)
	if err != nil {
		return handleDocumentError(err, log)
	}

	orchestrator, release := newOrchestrator(ctx, cfg, log)
	defer release()

	var (
		data   *models.StructuredInvoiceData
		method string
	)
	if smartOnly {
		data, method, err = orchestrator.ExtractSmartOnly(ctx, text.Text)
		if err != nil {
			return handleExtractionError(err, method)
		}
	} else {
		data, method = orchestrator.Extract(ctx, text.Text)
		if data == nil {
			return fmt.Errorf("no invoice data could be extracted from %s (method: %s)", path, method)
		}
	}

	log.Info().
		Str("method", method).
		Str("text_source", text.Source).
		Str("invoice_number", data.InvoiceMetadata.InvoiceNumber).
		Int("line_items", len(data.LineItems)).
		Float64("grand_total", data.Summary.GrandTotal).
		Dur("duration", time.Since(started)).
		Msg("Invoice extraction completed")

	switch {
	case legacy:
		return writeJSON(data.ToLegacy(text.Text), outputPath, log)
	case accounting:
		batch, err := booking.NewLedger().Book(data)
		if err != nil {
			return err
		}
		return writeJSON(batch, outputPath, log)
	default:
		return writeJSON(data, outputPath, log)
	}
}

// handleExtractionError explains smart-only failures
func handleExtractionError(err error, method string) error {
	switch {
	case errors.Is(err, invoice.ErrAdapterUnavailable):
		return fmt.Errorf("the model is not available. Set GEMINI_API_KEY or OPENAI_API_KEY and AI_EXTRACTION_ENABLED=true")
	case errors.Is(err, invoice.ErrNoTextExtracted), errors.Is(err, ocr.ErrEmptyDocument):
		return fmt.Errorf("the document contains no text")
	default:
		return fmt.Errorf("smart extraction failed (%s): %w", method, err)
	}
}

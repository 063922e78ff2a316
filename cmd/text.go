package cmd

import (
	"github.com/spf13/cobra"

	"invoicekit/internal/logger"
)

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Print the text recovered from a document",
	Long: `Recover the text of a document the same way extract does: plain text as is,
the embedded text layer of PDFs, and OCR for scanned PDFs and images.

OCR uses Google Cloud Vision by default. Set OCR_PROVIDER=documentai together
with GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION and DOCUMENT_AI_PROCESSOR_ID to
use Document AI instead.

Credentials:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Print the text of a PDF
  invoicekit text invoice.pdf

  # Save text with metadata as JSON
  invoicekit text scan.png --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	textCmd.Flags().Bool("json", false, "Output text and metadata as JSON")
	textCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("text")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContext(timeoutSecs, log)
	defer cancel()

	res, err := readDocumentText(ctx, cfg, args[0], log)
	if err != nil {
		return handleDocumentError(err, log)
	}

	log.Info().
		Str("source", res.Source).
		Int("page_count", res.PageCount).
		Float32("confidence", res.Confidence).
		Int("text_length", len(res.Text)).
		Msg("Text recovered")

	if jsonOutput {
		return writeJSON(res, outputPath, log)
	}
	return writeOutput([]byte(res.Text), outputPath, log)
}

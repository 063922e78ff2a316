package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"invoicekit/internal/config"
	"invoicekit/internal/invoice"
	"invoicekit/internal/ocr"
)

// createContext creates a context with timeout and signal handling
func createContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// loadConfig reads the environment configuration and logs its warnings.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}
	return cfg, nil
}

// readDocumentText loads path and recovers its text through the pipeline. OCR
// is only set up when the document needs it.
func readDocumentText(ctx context.Context, cfg *config.Config, path string, log zerolog.Logger) (*ocr.Result, error) {
	doc, err := ocr.LoadDocument(path, cfg.MaxDocumentSize)
	if err != nil {
		return nil, err
	}

	var source ocr.TextSource
	if doc.MIMEType != ocr.MIMEPlainText {
		svc, err := ocr.NewOCRService(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("OCR unavailable, continuing with text layers only")
		} else if svc != nil {
			defer func() {
				if closeErr := svc.Close(); closeErr != nil {
					log.Warn().Err(closeErr).Msg("Failed to close OCR service")
				}
			}()
			source = svc
		}
	}

	log.Info().
		Str("file", doc.Name).
		Str("mime_type", doc.MIMEType).
		Int("size", len(doc.Data)).
		Msg("Reading document")

	return ocr.NewPipeline(source).ExtractText(ctx, doc)
}

// newOrchestrator builds the smart extractor for cfg and an orchestrator
// around it. The returned func releases the extractor.
func newOrchestrator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*invoice.Orchestrator, func()) {
	smart, err := invoice.NewSmartExtractor(ctx, cfg.AI)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.AI.Provider).Msg("Smart extractor unavailable")
		smart = nil
	}

	release := func() {}
	if c, ok := smart.(io.Closer); ok {
		release = func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close smart extractor")
			}
		}
	}
	return invoice.NewOrchestrator(cfg.AI, smart), release
}

// writeJSON writes v as indented JSON to outputPath, or stdout when empty
func writeJSON(v any, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	return writeOutput(append(jsonData, '\n'), outputPath, log)
}

func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(data)).
		Msg("Output written to file")
	return nil
}

// handleDocumentError provides user-friendly messages for document failures
func handleDocumentError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Document processing failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("processing timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("processing was canceled")
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("file not found: %w", err)
	case errors.Is(err, ocr.ErrUnsupportedFormat):
		return fmt.Errorf("unsupported document format. Use .txt, .pdf or an image (png, jpg, gif, bmp, tiff, webp): %w", err)
	case errors.Is(err, ocr.ErrDocumentTooLarge):
		return fmt.Errorf("document is too large. Raise MAX_DOCUMENT_SIZE or split the file: %w", err)
	case errors.Is(err, ocr.ErrNoOCRProvider):
		return fmt.Errorf("the document has no text layer and OCR is not available.\n" +
			"Set OCR_PROVIDER=vision or OCR_PROVIDER=documentai and configure one of:\n" +
			"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n" +
			"  GOOGLE_CREDENTIALS='<json-credentials>'")
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("missing Google Cloud credentials: %w", err)
	case errors.Is(err, ocr.ErrTooManyPages):
		return fmt.Errorf("the document has too many pages for synchronous OCR. Try splitting it")
	case errors.Is(err, ocr.ErrEmptyDocument):
		return fmt.Errorf("no readable text found in the document")
	case errors.Is(err, ocr.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return fmt.Errorf("permission denied. Please check the roles of your Google Cloud service account")
	case strings.Contains(errStr, "QUOTA_EXCEEDED"):
		return fmt.Errorf("Google Cloud quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, ocr.ErrOCRFailed):
		return fmt.Errorf("OCR failed. This may be due to network issues or service unavailability: %w", err)
	default:
		return fmt.Errorf("document processing failed: %w", err)
	}
}

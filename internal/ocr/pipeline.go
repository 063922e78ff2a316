package ocr

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"invoicekit/internal/config"
	"invoicekit/internal/logger"
)

// OCRService is a TextSource backed by a remote OCR provider.
type OCRService interface {
	TextSource
	Close() error
}

// NewOCRService builds the provider selected by cfg.OCRProvider. It returns
// nil without error for OCR_PROVIDER=none.
func NewOCRService(ctx context.Context, cfg *config.Config) (OCRService, error) {
	switch cfg.OCRProvider {
	case config.OCRNone:
		return nil, nil
	case config.OCRDocumentAI:
		svc, err := NewDocumentAIOCRService(ctx, DocumentAIConfig{
			ProjectID:        cfg.GoogleCloudProject,
			Location:         cfg.GoogleCloudLocation,
			ProcessorID:      cfg.DocumentAIProcessorID,
			ProcessorVersion: cfg.DocumentAIProcessorVersion,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		svc, err := NewGoogleVisionOCRService(ctx)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

// Pipeline picks a source per document type. PDFs try their text layer
// before OCR.
type Pipeline struct {
	plain   TextSource
	pdfText TextSource
	ocr     TextSource
	log     zerolog.Logger
}

// NewPipeline creates a pipeline. ocr may be nil, in which case images and
// scanned PDFs cannot be read.
func NewPipeline(ocr TextSource) *Pipeline {
	return &Pipeline{
		plain:   PlainTextSource{},
		pdfText: PDFTextSource{},
		ocr:     ocr,
		log:     logger.WithComponent("text-pipeline"),
	}
}

// ExtractText implements TextSource.
func (p *Pipeline) ExtractText(ctx context.Context, doc *Document) (*Result, error) {
	const op = "Pipeline.ExtractText"
	started := time.Now()

	switch {
	case doc.MIMEType == MIMEPlainText:
		return p.plain.ExtractText(ctx, doc)

	case doc.MIMEType == MIMEPDF:
		res, err := p.pdfText.ExtractText(ctx, doc)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		p.log.Info().
			Err(err).
			Str("document", doc.Name).
			Msg("PDF text layer unusable, trying OCR")
		return p.runOCR(ctx, doc, started)

	case doc.IsImage():
		return p.runOCR(ctx, doc, started)
	}

	return nil, WrapOCRError(op, ErrUnsupportedFormat, doc.MIMEType)
}

func (p *Pipeline) runOCR(ctx context.Context, doc *Document, started time.Time) (*Result, error) {
	const op = "Pipeline.runOCR"

	if p.ocr == nil {
		return nil, WrapOCRError(op, ErrNoOCRProvider, doc.Name)
	}
	res, err := p.ocr.ExtractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("document", doc.Name).
		Str("source", res.Source).
		Int("pages", res.PageCount).
		Dur("elapsed", time.Since(started)).
		Msg("Text recovered by OCR")
	return res, nil
}

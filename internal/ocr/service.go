// Package ocr recovers invoice text from uploaded documents.
//
// Plain text files are read as is. PDFs are read through their embedded text
// layer first; when that layer is empty the document is sent to an OCR
// provider. Images always go to the OCR provider.
//
// OCR Providers (OCR_PROVIDER):
//   - vision: Google Cloud Vision document text detection (default)
//   - documentai: Google Document AI OCR processor
//   - none: text layer only
//
// Required Environment Variables for OCR:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID: for documentai only
//
// Limitations:
//   - Documents larger than MAX_DOCUMENT_SIZE (default 16MB) are rejected
//   - Vision processes at most 5 PDF pages synchronously
//   - Supported formats: PDF, PNG, JPEG, GIF, BMP, TIFF, WEBP and plain text
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Supported MIME types.
const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
)

var mimeByExt = map[string]string{
	".txt":  MIMEPlainText,
	".text": MIMEPlainText,
	".pdf":  MIMEPDF,
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// Document is a loaded input file.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsImage reports whether the document is a raster image.
func (d *Document) IsImage() bool {
	return strings.HasPrefix(d.MIMEType, "image/")
}

// TextSource extracts text from a document.
type TextSource interface {
	ExtractText(ctx context.Context, doc *Document) (*Result, error)
}

// Result contains recovered text and how it was obtained.
type Result struct {
	// Text is the content of all pages in reading order.
	Text string `json:"text"`

	// Source names the extractor that produced Text (plain, pdf_text, vision, documentai).
	Source string `json:"source"`

	// PageCount is the number of pages that were processed.
	PageCount int `json:"page_count"`

	// Confidence is the average OCR confidence (0.0 to 1.0). Text layers report 1.
	Confidence float32 `json:"confidence"`

	// LanguageCodes contains the detected languages in the document.
	LanguageCodes []string `json:"language_codes,omitempty"`

	ProcessedAt        time.Time     `json:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// DetectMIMEType maps a file name to a supported MIME type.
func DetectMIMEType(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mime, ok := mimeByExt[ext]
	if !ok {
		return "", WrapOCRError("DetectMIMEType", ErrUnsupportedFormat, fmt.Sprintf("extension %q", ext))
	}
	return mime, nil
}

// LoadDocument reads path and checks its size and format.
func LoadDocument(path string, maxSize int64) (*Document, error) {
	const op = "LoadDocument"

	mime, err := DetectMIMEType(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to stat document")
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, WrapOCRError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes, limit: %d", info.Size(), maxSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read document")
	}
	if len(data) == 0 {
		return nil, WrapOCRError(op, ErrEmptyDocument, path)
	}

	return &Document{Name: filepath.Base(path), MIMEType: mime, Data: data}, nil
}

// PlainTextSource returns text documents unchanged.
type PlainTextSource struct{}

// ExtractText implements TextSource.
func (PlainTextSource) ExtractText(ctx context.Context, doc *Document) (*Result, error) {
	const op = "PlainTextSource.ExtractText"

	if doc.MIMEType != MIMEPlainText {
		return nil, WrapOCRError(op, ErrUnsupportedFormat, doc.MIMEType)
	}
	if !utf8.Valid(doc.Data) {
		return nil, WrapOCRError(op, ErrUnsupportedFormat, "text is not valid UTF-8")
	}

	now := time.Now()
	return &Result{
		Text:        strings.ReplaceAll(string(doc.Data), "\r\n", "\n"),
		Source:      "plain",
		PageCount:   1,
		Confidence:  1,
		ProcessedAt: now,
	}, nil
}

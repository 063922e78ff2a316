package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PDFTextSource reads the embedded text layer of a PDF.
type PDFTextSource struct{}

// ExtractText implements TextSource. A PDF without a text layer yields
// ErrEmptyDocument.
func (PDFTextSource) ExtractText(ctx context.Context, doc *Document) (res *Result, err error) {
	const op = "PDFTextSource.ExtractText"
	started := time.Now()

	if len(doc.Data) < 4 || string(doc.Data[:4]) != "%PDF" {
		return nil, WrapOCRError(op, ErrInvalidPDF, "missing PDF header")
	}

	// The reader panics on some malformed cross reference tables.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = WrapOCRError(op, ErrInvalidPDF, fmt.Sprint(r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return nil, WrapOCRError(op, ErrInvalidPDF, err.Error())
	}

	var text strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, WrapOCRError(op, err, "cancelled")
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, WrapOCRError(op, err, fmt.Sprintf("page %d", i))
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			if line := strings.Join(strings.Fields(strings.Join(words, " ")), " "); line != "" {
				text.WriteString(line)
				text.WriteString("\n")
			}
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return nil, WrapOCRError(op, ErrEmptyDocument, "no text layer")
	}

	now := time.Now()
	return &Result{
		Text:               text.String(),
		Source:             "pdf_text",
		PageCount:          pages,
		Confidence:         1,
		ProcessedAt:        now,
		ProcessingDuration: now.Sub(started),
	}, nil
}

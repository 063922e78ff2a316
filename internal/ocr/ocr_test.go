package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOCR struct {
	calls int
	err   error
}

func (f *fakeOCR) ExtractText(ctx context.Context, doc *Document) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Text: "scanned text", Source: "fake", PageCount: 1, Confidence: 0.9}, nil
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestDetectMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.pdf":        MIMEPDF,
		"A.PDF":        MIMEPDF,
		"scan.jpeg":    "image/jpeg",
		"scan.jpg":     "image/jpeg",
		"scan.webp":    "image/webp",
		"invoice.txt":  MIMEPlainText,
		"dir/page.tif": "image/tiff",
	}
	for name, want := range tests {
		got, err := DetectMIMEType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := DetectMIMEType("invoice.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadDocument(t *testing.T) {
	path := writeFile(t, "invoice.txt", []byte("Invoice #1"))

	doc, err := LoadDocument(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "invoice.txt", doc.Name)
	assert.Equal(t, MIMEPlainText, doc.MIMEType)
	assert.Equal(t, []byte("Invoice #1"), doc.Data)
	assert.False(t, doc.IsImage())
}

func TestLoadDocumentErrors(t *testing.T) {
	_, err := LoadDocument(writeFile(t, "big.pdf", make([]byte, 64)), 32)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	_, err = LoadDocument(writeFile(t, "empty.txt", nil), 32)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = LoadDocument(writeFile(t, "notes.md", []byte("x")), 32)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.pdf"), 32)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlainTextSourceRejectsBinary(t *testing.T) {
	_, err := PlainTextSource{}.ExtractText(context.Background(), &Document{MIMEType: MIMEPlainText, Data: []byte{0xff, 0xfe, 0xfd}})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPDFTextSourceRejectsInvalidPDF(t *testing.T) {
	src := PDFTextSource{}

	_, err := src.ExtractText(context.Background(), &Document{MIMEType: MIMEPDF, Data: []byte("hello")})
	assert.ErrorIs(t, err, ErrInvalidPDF)

	_, err = src.ExtractText(context.Background(), &Document{MIMEType: MIMEPDF, Data: []byte("%PDF-1.4 truncated")})
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestPipelineFallsBackToOCR(t *testing.T) {
	fake := &fakeOCR{}
	p := NewPipeline(fake)

	res, err := p.ExtractText(context.Background(), &Document{Name: "scan.pdf", MIMEType: MIMEPDF, Data: []byte("%PDF-1.4 truncated")})
	require.NoError(t, err)
	assert.Equal(t, "fake", res.Source)
	assert.Equal(t, 1, fake.calls)

	res, err = p.ExtractText(context.Background(), &Document{Name: "scan.png", MIMEType: "image/png", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "scanned text", res.Text)
	assert.Equal(t, 2, fake.calls)
}

func TestPipelineWithoutOCR(t *testing.T) {
	p := NewPipeline(nil)

	_, err := p.ExtractText(context.Background(), &Document{Name: "scan.pdf", MIMEType: MIMEPDF, Data: []byte("%PDF-1.4 truncated")})
	assert.ErrorIs(t, err, ErrNoOCRProvider)

	_, err = p.ExtractText(context.Background(), &Document{Name: "a.doc", MIMEType: "application/msword"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPipelinePropagatesOCRFailure(t *testing.T) {
	p := NewPipeline(&fakeOCR{err: WrapOCRError("fake", ErrOCRFailed, "quota")})

	_, err := p.ExtractText(context.Background(), &Document{Name: "scan.png", MIMEType: "image/png", Data: []byte{1}})
	assert.ErrorIs(t, err, ErrOCRFailed)

	var ocrErr *OCRError
	require.ErrorAs(t, err, &ocrErr)
	assert.Equal(t, "fake", ocrErr.Op)
	assert.Equal(t, "ocr: fake failed: quota: OCR processing failed", ocrErr.Error())
}

func TestWrapOCRError(t *testing.T) {
	assert.NoError(t, WrapOCRError("op", nil, ""))

	inner := WrapOCRError("inner", ErrEmptyDocument, "")
	assert.Same(t, inner, WrapOCRError("outer", inner, "ignored"))
	assert.True(t, errors.Is(inner, ErrEmptyDocument))
}

func TestCollectPages(t *testing.T) {
	pages := []*visionpb.AnnotateImageResponse{
		{FullTextAnnotation: &visionpb.TextAnnotation{
			Text: "Invoice #7",
			Pages: []*visionpb.Page{{
				Confidence: 0.8,
				Property: &visionpb.TextAnnotation_TextProperty{
					DetectedLanguages: []*visionpb.TextAnnotation_DetectedLanguage{{LanguageCode: "en"}},
				},
			}},
		}},
		{FullTextAnnotation: &visionpb.TextAnnotation{
			Text:  "Total: 10.00",
			Pages: []*visionpb.Page{{Confidence: 0.6}},
		}},
	}

	res, err := collectPages(pages)
	require.NoError(t, err)
	assert.Equal(t, "Invoice #7\nTotal: 10.00", res.Text)
	assert.Equal(t, 2, res.PageCount)
	assert.InDelta(t, 0.7, res.Confidence, 1e-6)
	assert.Equal(t, []string{"en"}, res.LanguageCodes)

	_, err = collectPages([]*visionpb.AnnotateImageResponse{{}})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestDocumentResult(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Invoice #9\nTotal: 5.00",
		Pages: []*documentaipb.Document_Page{
			{
				Layout: &documentaipb.Document_Page_Layout{Confidence: 0.9},
				DetectedLanguages: []*documentaipb.Document_Page_DetectedLanguage{
					{LanguageCode: "de"}, {LanguageCode: "en"},
				},
			},
		},
	}

	res := documentResult(doc)
	assert.Equal(t, "documentai", res.Source)
	assert.Equal(t, 1, res.PageCount)
	assert.InDelta(t, 0.9, res.Confidence, 1e-6)
	assert.Equal(t, []string{"de", "en"}, res.LanguageCodes)
}

func TestProcessorName(t *testing.T) {
	cfg := DocumentAIConfig{ProjectID: "p", Location: "eu", ProcessorID: "abc"}
	assert.Equal(t, "projects/p/locations/eu/processors/abc", cfg.ProcessorName())

	cfg.ProcessorVersion = "v2"
	assert.Equal(t, "projects/p/locations/eu/processors/abc/processorVersions/v2", cfg.ProcessorName())
}

// Package invoice turns invoice text into structured invoice records.
//
// Extraction runs in up to two stages. A smart extractor (a Gemini or OpenAI
// model) is tried first when one is configured; its result is scored for
// completeness and accepted only above the confidence threshold. Otherwise
// the pattern extractor builds the record from regular expressions.
//
// Environment Variables (see internal/config):
//   - SMART_PROVIDER: gemini or openai (default gemini)
//   - GEMINI_API_KEY / OPENAI_API_KEY: key of the selected provider
//   - AI_EXTRACTION_ENABLED: enables the smart stage (default true)
//   - FALLBACK_TO_REGEX: enables the pattern stage (default true)
//   - CONFIDENCE_THRESHOLD: minimum smart score, exclusive (default 0.3)
//
// Results:
//   - A record carries the method that produced it and a confidence score
//   - Pattern results always score 0.6 and set fallback_used
//   - Validation problems are reported in extraction_metadata.errors and
//     never fail an extraction
package invoice

import (
	"context"

	"invoicekit/internal/config"
	"invoicekit/pkg/models"
)

// SmartExtractor is a model backed extraction path.
type SmartExtractor interface {
	// Available reports whether the extractor is configured and reachable.
	Available() bool

	// Extract returns the record and the method tag that produced it. On
	// failure the tag names the failure kind and the error is non-nil.
	Extract(ctx context.Context, text string) (*models.StructuredInvoiceData, string, error)
}

// usageReporter is implemented by extractors that can describe their settings.
type usageReporter interface {
	Usage() UsageInfo
}

// NewSmartExtractor builds the extractor for cfg.Provider.
func NewSmartExtractor(ctx context.Context, cfg config.AIConfig) (SmartExtractor, error) {
	if cfg.Provider == config.ProviderOpenAI {
		return NewOpenAIExtractor(cfg), nil
	}
	return NewGeminiExtractor(ctx, cfg)
}

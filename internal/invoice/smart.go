package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"invoicekit/internal/config"
	"invoicekit/pkg/models"
)

// Result tags reported by smart extractors when they fail.
const (
	TagModelUnavailable = "model_unavailable"
	TagNoResponse       = "no_response"
	TagParseError       = "parse_error"
	TagExtractionError  = "extraction_error"
)

// UsageInfo describes a smart extractor for status reporting.
type UsageInfo struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Available   bool          `json:"available"`
	Configured  bool          `json:"configured"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`
	MaxRetries  int           `json:"max_retries"`
}

// generator produces raw model text for a prompt.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// modelExtractor holds the provider independent part of a smart extractor:
// prompt building, retries with exponential backoff and response parsing.
type modelExtractor struct {
	provider string
	method   string
	model    string
	cfg      config.AIConfig
	gen      generator
	sleep    func(time.Duration)
	log      zerolog.Logger
}

// Available reports whether the extractor can serve requests.
func (e *modelExtractor) Available() bool {
	return e.gen != nil && e.cfg.APIKey() != ""
}

// Usage reports provider settings.
func (e *modelExtractor) Usage() UsageInfo {
	return UsageInfo{
		Provider:    e.provider,
		Model:       e.model,
		Available:   e.Available(),
		Configured:  e.cfg.Configured(),
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Timeout:     e.cfg.Timeout,
		MaxRetries:  e.cfg.MaxRetries,
	}
}

// Extract sends text to the model and returns the parsed record with the
// method tag. On failure the tag names the failure kind.
func (e *modelExtractor) Extract(ctx context.Context, text string) (*models.StructuredInvoiceData, string, error) {
	op := e.provider + ".Extract"

	if !e.Available() {
		return nil, TagModelUnavailable, WrapExtractionError(op, ErrAdapterUnavailable, e.provider)
	}

	started := time.Now()
	prompt := buildPrompt(text)

	attempts := e.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	e.log.Debug().
		Int("prompt_length", len(prompt)).
		Str("model", e.model).
		Float32("temperature", e.cfg.Temperature).
		Msg("Sending extraction request")

	var lastErr error
	tag := TagExtractionError
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			e.log.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Int("max_retries", attempts).
				Dur("backoff", backoff).
				Msg("Extraction attempt failed, retrying")
			e.sleep(backoff)
		}
		if err := ctx.Err(); err != nil {
			return nil, TagExtractionError, WrapExtractionError(op, err, "cancelled")
		}

		raw, err := e.generateOnce(ctx, prompt)
		if err != nil {
			lastErr = err
			tag = TagExtractionError
			if errors.Is(err, ErrEmptyResponse) {
				tag = TagNoResponse
			}
			continue
		}

		data, err := parseModelResponse(raw, e.method, e.model, started)
		if err != nil {
			lastErr = err
			tag = TagParseError
			if errors.Is(err, ErrEmptyResponse) {
				tag = TagNoResponse
			}
			e.log.Debug().Str("response", raw).Msg("Unusable model response")
			continue
		}

		e.log.Info().
			Int("attempt", attempt+1).
			Int("line_items", len(data.LineItems)).
			Float64("confidence", data.Confidence()).
			Msg("Model extraction succeeded")
		return data, e.method, nil
	}

	return nil, tag, WrapExtractionError(op, lastErr, fmt.Sprintf("all %d attempts failed", attempts))
}

func (e *modelExtractor) generateOnce(ctx context.Context, prompt string) (string, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	return e.gen.generate(ctx, prompt)
}

package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoicekit/internal/config"
	"invoicekit/internal/logger"
	"invoicekit/pkg/models"
)

// Status describes how the orchestrator is set up.
type Status struct {
	Provider            string     `json:"provider"`
	Model               string     `json:"model"`
	Enabled             bool       `json:"ai_extraction_enabled"`
	Configured          bool       `json:"configured"`
	Available           bool       `json:"available"`
	FallbackToRegex     bool       `json:"fallback_to_regex"`
	ConfidenceThreshold float64    `json:"confidence_threshold"`
	Usage               *UsageInfo `json:"usage,omitempty"`
}

// Orchestrator chooses between the smart and pattern paths for each document.
// It holds no per-document state and is safe for concurrent use.
type Orchestrator struct {
	cfg      config.AIConfig
	smart    SmartExtractor
	patterns *PatternExtractor
}

// NewOrchestrator creates an orchestrator. smart may be nil.
func NewOrchestrator(cfg config.AIConfig, smart SmartExtractor) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		smart:    smart,
		patterns: NewPatternExtractor(),
	}
}

// Extract returns the record for text and the method that produced it. When
// nothing could be produced the record is nil and the method is
// models.MethodExtractionFailed.
func (o *Orchestrator) Extract(ctx context.Context, text string) (*models.StructuredInvoiceData, string) {
	log := logger.WithDocument("orchestrator", uuid.NewString())

	if strings.TrimSpace(text) == "" {
		log.Warn().Err(ErrNoTextExtracted).Msg("Nothing to extract")
		return nil, models.MethodExtractionFailed
	}

	data, method, err := o.trySmart(ctx, text, log)
	if err == nil {
		log.Info().
			Str("method", method).
			Float64("confidence", data.Confidence()).
			Msg("Smart extraction accepted")
		return data, method
	}
	log.Info().Err(err).Str("method", method).Msg("Smart extraction not used")

	if !o.cfg.FallbackToRegex {
		log.Warn().Err(ErrExtractionExhausted).Msg("Fallback disabled")
		return nil, models.MethodExtractionFailed
	}

	data = o.patterns.Extract(text)
	log.Info().
		Int("line_items", len(data.LineItems)).
		Int("warnings", len(data.ExtractionMetadata.Errors)).
		Msg("Pattern extraction used")
	return data, models.MethodRegexFallback
}

// ExtractSmartOnly runs the smart path without the confidence gate or the
// pattern fallback.
func (o *Orchestrator) ExtractSmartOnly(ctx context.Context, text string) (*models.StructuredInvoiceData, string, error) {
	const op = "ExtractSmartOnly"

	if strings.TrimSpace(text) == "" {
		return nil, models.MethodExtractionFailed, WrapExtractionError(op, ErrNoTextExtracted, "")
	}
	if o.smart == nil || !o.smart.Available() {
		return nil, TagModelUnavailable, WrapExtractionError(op, ErrAdapterUnavailable, o.cfg.Provider)
	}

	log := logger.WithDocument("orchestrator", uuid.NewString())
	data, method, err := o.callSmart(ctx, text)
	if err != nil {
		return nil, method, WrapExtractionError(op, err, "")
	}
	if data == nil {
		return nil, TagNoResponse, WrapExtractionError(op, ErrEmptyResponse, "")
	}
	o.accept(data, method, ScoreConfidence(data))
	method = data.ExtractionMetadata.Method
	log.Info().Str("method", method).Float64("confidence", data.Confidence()).Msg("Smart-only extraction finished")
	return data, method, nil
}

// Status reports the configuration and availability of the smart path.
func (o *Orchestrator) Status() Status {
	s := Status{
		Provider:            o.cfg.Provider,
		Model:               o.cfg.Model(),
		Enabled:             o.cfg.Enabled,
		Configured:          o.cfg.Configured(),
		Available:           o.smart != nil && o.smart.Available(),
		FallbackToRegex:     o.cfg.FallbackToRegex,
		ConfidenceThreshold: o.cfg.ConfidenceThreshold,
	}
	if r, ok := o.smart.(usageReporter); ok {
		u := r.Usage()
		s.Usage = &u
	}
	return s
}

// trySmart returns an accepted smart result or the reason there is none. The
// result is gated on the lower of ScoreConfidence and the confidence the
// adapter recorded, so an adapter can only make acceptance stricter.
func (o *Orchestrator) trySmart(ctx context.Context, text string, log zerolog.Logger) (*models.StructuredInvoiceData, string, error) {
	const op = "trySmart"

	if o.smart == nil || !o.cfg.Enabled || !o.smart.Available() {
		return nil, TagModelUnavailable, WrapExtractionError(op, ErrAdapterUnavailable, o.cfg.Provider)
	}

	data, method, err := o.callSmart(ctx, text)
	if err != nil {
		return nil, method, err
	}
	if data == nil {
		return nil, TagNoResponse, WrapExtractionError(op, ErrEmptyResponse, "")
	}

	score := ScoreConfidence(data)
	if reported := data.Confidence(); data.ExtractionMetadata.ConfidenceScore != nil && reported < score {
		score = reported
	}
	log.Debug().Float64("score", score).Float64("threshold", o.cfg.ConfidenceThreshold).Msg("Smart result scored")

	if score <= o.cfg.ConfidenceThreshold {
		return nil, method, WrapExtractionError(op, ErrLowConfidence,
			fmt.Sprintf("score %.2f, threshold %.2f", score, o.cfg.ConfidenceThreshold))
	}

	o.accept(data, method, score)
	return data, data.ExtractionMetadata.Method, nil
}

// callSmart invokes the smart extractor, converting a panic into an error.
func (o *Orchestrator) callSmart(ctx context.Context, text string) (data *models.StructuredInvoiceData, method string, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			method = TagExtractionError
			err = WrapExtractionError("callSmart", ErrAdapterPanic, fmt.Sprint(r))
		}
	}()
	return o.smart.Extract(ctx, text)
}

func (o *Orchestrator) accept(data *models.StructuredInvoiceData, method string, score float64) {
	meta := &data.ExtractionMetadata
	if method != "" {
		meta.Method = method
	}
	meta.FallbackUsed = false
	data.SetConfidence(score)
}

package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"invoicekit/internal/config"
	"invoicekit/internal/logger"
	"invoicekit/pkg/models"
)

// GeminiExtractor extracts invoices with a Gemini model.
type GeminiExtractor struct {
	modelExtractor
	client *genai.Client
}

// NewGeminiExtractor creates a Gemini backed extractor. Without an API key
// the extractor is returned but reports itself unavailable.
func NewGeminiExtractor(ctx context.Context, cfg config.AIConfig) (*GeminiExtractor, error) {
	const op = "NewGeminiExtractor"

	e := &GeminiExtractor{
		modelExtractor: modelExtractor{
			provider: config.ProviderGemini,
			method:   models.MethodGemini,
			model:    cfg.GeminiModel,
			cfg:      cfg,
			sleep:    time.Sleep,
			log:      logger.WithComponent("gemini"),
		},
	}

	if cfg.GeminiAPIKey == "" {
		e.log.Warn().Msg("GEMINI_API_KEY not set, Gemini extraction unavailable")
		return e, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to create Gemini client")
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	temperature := cfg.Temperature
	maxTokens := int32(cfg.MaxTokens)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temperature,
		MaxOutputTokens: &maxTokens,
	}
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	e.client = client
	e.gen = geminiGenerator{model: model}

	e.log.Info().
		Str("model", cfg.GeminiModel).
		Float32("temperature", cfg.Temperature).
		Int("max_tokens", cfg.MaxTokens).
		Msg("Gemini extractor initialized")

	return e, nil
}

// Close releases the underlying client.
func (e *GeminiExtractor) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}

type geminiGenerator struct {
	model *genai.GenerativeModel
}

func (g geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return "", fmt.Errorf("%w: output truncated at token limit", ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

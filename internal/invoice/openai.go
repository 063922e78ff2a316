package invoice

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"invoicekit/internal/config"
	"invoicekit/internal/logger"
	"invoicekit/pkg/models"
)

// OpenAIExtractor extracts invoices with an OpenAI chat model.
type OpenAIExtractor struct {
	modelExtractor
}

// NewOpenAIExtractor creates an OpenAI backed extractor. Without an API key
// the extractor is returned but reports itself unavailable.
func NewOpenAIExtractor(cfg config.AIConfig) *OpenAIExtractor {
	e := &OpenAIExtractor{
		modelExtractor: modelExtractor{
			provider: config.ProviderOpenAI,
			method:   models.MethodOpenAI,
			model:    cfg.OpenAIModel,
			cfg:      cfg,
			sleep:    time.Sleep,
			log:      logger.WithComponent("openai"),
		},
	}

	if cfg.OpenAIAPIKey == "" {
		e.log.Warn().Msg("OPENAI_API_KEY not set, OpenAI extraction unavailable")
		return e
	}

	e.gen = openAIGenerator{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		model:       cfg.OpenAIModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
	return e
}

type openAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func (g openAIGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

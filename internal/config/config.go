package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"invoicekit/internal/logger"
)

// Smart extraction providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// OCR providers used when a document has no text layer.
const (
	OCRVision     = "vision"
	OCRDocumentAI = "documentai"
	OCRNone       = "none"
)

// AIConfig controls the smart extraction path and the fallback gate.
type AIConfig struct {
	Provider            string
	GeminiAPIKey        string
	GeminiModel         string
	OpenAIAPIKey        string
	OpenAIModel         string
	Temperature         float32
	MaxTokens           int
	Enabled             bool
	FallbackToRegex     bool
	Timeout             time.Duration
	MaxRetries          int
	ConfidenceThreshold float64
}

// APIKey returns the key of the selected provider.
func (c AIConfig) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Model returns the model name of the selected provider.
func (c AIConfig) Model() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

// Configured reports whether smart extraction is enabled and has a key.
func (c AIConfig) Configured() bool {
	return c.Enabled && c.APIKey() != ""
}

// DefaultAIConfig mirrors the environment defaults.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Provider:            ProviderGemini,
		GeminiModel:         "gemini-2.0-flash",
		OpenAIModel:         "gpt-4o-mini",
		Temperature:         0.1,
		MaxTokens:           8192,
		Enabled:             true,
		FallbackToRegex:     true,
		Timeout:             30 * time.Second,
		MaxRetries:          3,
		ConfidenceThreshold: 0.3,
	}
}

type Config struct {
	AI AIConfig

	// Google Cloud Configuration
	GoogleCloudProject         string
	GoogleCloudLocation        string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string
	OCRProvider                string
	MaxDocumentSize            int64

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads configuration from the environment. Only malformed values are
// errors; questionable but usable settings are reported by Warnings.
func Load() (*Config, error) {
	def := DefaultAIConfig()
	p := envParser{}

	config := &Config{
		AI: AIConfig{
			Provider:            strings.ToLower(getEnv("SMART_PROVIDER", def.Provider)),
			GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
			GeminiModel:         getEnv("GEMINI_MODEL", def.GeminiModel),
			OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:         getEnv("OPENAI_MODEL", def.OpenAIModel),
			Temperature:         float32(p.getFloat("GEMINI_TEMPERATURE", float64(def.Temperature))),
			MaxTokens:           p.getInt("GEMINI_MAX_TOKENS", def.MaxTokens),
			Enabled:             p.getBool("AI_EXTRACTION_ENABLED", def.Enabled),
			FallbackToRegex:     p.getBool("FALLBACK_TO_REGEX", def.FallbackToRegex),
			Timeout:             time.Duration(p.getInt("GEMINI_TIMEOUT", int(def.Timeout/time.Second))) * time.Second,
			MaxRetries:          p.getInt("GEMINI_MAX_RETRIES", def.MaxRetries),
			ConfidenceThreshold: p.getFloat("CONFIDENCE_THRESHOLD", def.ConfidenceThreshold),
		},
		GoogleCloudProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
		OCRProvider:                strings.ToLower(getEnv("OCR_PROVIDER", OCRVision)),
		MaxDocumentSize:            int64(p.getInt("MAX_DOCUMENT_SIZE", 16*1024*1024)),
		GoogleSheetURL:             getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:       getEnv("GOOGLE_SHEET_WORKSHEET", "Line_Items"),
		LogLevel:                   getEnv("LOG_LEVEL", "info"),
		LogFormat:                  getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:              getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                  getEnv("LOG_OUTPUT", "stderr"),
	}

	if p.err != nil {
		return nil, fmt.Errorf("config validation failed: %w", p.err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("SMART_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.AI.Provider)
	}
	switch c.OCRProvider {
	case OCRVision, OCRDocumentAI, OCRNone:
	default:
		return fmt.Errorf("OCR_PROVIDER must be vision, documentai or none, got %q", c.OCRProvider)
	}
	return nil
}

// Warnings lists settings that are usable but probably not intended.
func (c *Config) Warnings() []string {
	var w []string
	ai := c.AI

	if ai.Enabled && ai.APIKey() == "" {
		w = append(w, fmt.Sprintf("AI extraction is enabled but no API key is set for provider %s", ai.Provider))
	}
	if ai.Temperature < 0 || ai.Temperature > 2 {
		w = append(w, "GEMINI_TEMPERATURE should be between 0 and 2")
	}
	if ai.MaxTokens < 1 || ai.MaxTokens > 32768 {
		w = append(w, "GEMINI_MAX_TOKENS should be between 1 and 32768")
	}
	if ai.Timeout < time.Second || ai.Timeout > 300*time.Second {
		w = append(w, "GEMINI_TIMEOUT should be between 1 and 300 seconds")
	}
	if ai.MaxRetries < 1 {
		w = append(w, "GEMINI_MAX_RETRIES should be at least 1")
	}
	if ai.ConfidenceThreshold < 0 || ai.ConfidenceThreshold > 1 {
		w = append(w, "CONFIDENCE_THRESHOLD should be between 0 and 1")
	}
	if !ai.Enabled && !ai.FallbackToRegex {
		w = append(w, "both AI extraction and regex fallback are disabled; nothing will be extracted")
	}
	if c.OCRProvider == OCRDocumentAI && (c.GoogleCloudProject == "" || c.DocumentAIProcessorID == "") {
		w = append(w, "OCR_PROVIDER=documentai needs GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID")
	}
	return w
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser records the first malformed value it sees.
type envParser struct {
	err error
}

func (p *envParser) getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *envParser) getFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *envParser) getBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw)
		return def
	}
	return v
}

func (p *envParser) fail(key, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s has invalid value %q", key, raw)
	}
}

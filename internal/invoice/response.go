package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"invoicekit/pkg/models"
)

var (
	nullableObject = map[string]any{"type": []any{"object", "null"}}
	nullableText   = map[string]any{"type": []any{"string", "number", "null"}}
	nullableNumber = map[string]any{"type": []any{"number", "string", "null"}}

	// responseSchema checks the overall shape only. Field level leniency is
	// handled by models.FromJSON.
	responseSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"invoice_metadata": nullableObject,
			"vendor_details":   nullableObject,
			"customer_details": nullableObject,
			"line_items": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description": nullableText,
						"quantity":    nullableNumber,
						"unit_price":  nullableNumber,
						"subtotal":    nullableNumber,
						"tax_rate":    nullableNumber,
						"tax_amount":  nullableNumber,
						"total":       nullableNumber,
						"category":    nullableText,
					},
				},
			},
			"summary":         nullableObject,
			"payment_terms":   nullableObject,
			"additional_info": nullableObject,
		},
		"anyOf": []any{
			map[string]any{"required": []any{"invoice_metadata"}},
			map[string]any{"required": []any{"vendor_details"}},
			map[string]any{"required": []any{"line_items"}},
			map[string]any{"required": []any{"summary"}},
		},
	}

	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func responseValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(responseSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("invoice.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("invoice.json")
	})
	return compiledSchema, schemaErr
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseModelResponse turns raw model output into a finished record: shape
// checked, decoded, totals derived, scored and soft validated.
func parseModelResponse(raw, method, modelName string, started time.Time) (*models.StructuredInvoiceData, error) {
	const op = "parseModelResponse"

	content := stripFences(raw)
	if content == "" {
		return nil, WrapExtractionError(op, ErrEmptyResponse, "")
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, WrapExtractionError(op, ErrInvalidResponse, fmt.Sprintf("not JSON: %v", err))
	}

	schema, err := responseValidator()
	if err != nil {
		return nil, WrapExtractionError(op, err, "schema unavailable")
	}
	if err := schema.Validate(doc); err != nil {
		return nil, WrapExtractionError(op, ErrInvalidResponse, fmt.Sprintf("json does not match schema: %v", err))
	}

	data, err := models.FromJSON([]byte(content))
	if err != nil {
		return nil, WrapExtractionError(op, ErrInvalidResponse, err.Error())
	}

	data.DeriveTotals()

	elapsed := time.Since(started).Seconds()
	meta := &data.ExtractionMetadata
	meta.Method = method
	meta.Model = modelName
	meta.FallbackUsed = false
	meta.ProcessingTime = &elapsed
	data.SetConfidence(ScoreConfidence(data))
	meta.Errors = data.Validate()

	return data, nil
}

// Package lineitems turns invoice text lines into priced line items and
// groups them into product, service, tax, discount and other buckets.
package lineitems

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"invoicekit/internal/logger"
	"invoicekit/pkg/models"
)

const (
	minLineLength  = 5
	minDescription = 3
	maxAmount      = 999999
	maxQuantity    = 10000
)

// Draft is a parsed but not yet categorized line item.
type Draft struct {
	Category     models.Category
	Description  string
	Quantity     float64
	UnitPrice    *float64
	Amount       float64
	ProductCode  string
	OriginalLine string
	// Pattern is the 1-based index of the line shape that matched.
	Pattern int
}

const glyph = `(?:₹|€|£|\$)?`
const number = `([0-9,]+\.?\d{0,2})`

var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(qty|quantity|description|amount|total|subtotal|item|product).*$`),
	regexp.MustCompile(`(?i)^(invoice|bill|receipt|order).*$`),
	regexp.MustCompile(`(?i)^(page|continued|terms|conditions).*$`),
	regexp.MustCompile(`(?i)^(thank you|thanks|signature|authorized).*$`),
	regexp.MustCompile(`^\s*[-=_]+\s*$`),
	regexp.MustCompile(`^\s*\d+\s*$`),
}

// lineShape turns a submatch into a draft.
type lineShape struct {
	re    *regexp.Regexp
	build func(m []string) Draft
}

// Tried in order; the first shape that matches wins.
var lineShapes = []lineShape{
	{
		re: regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+(.+?)\s+` + glyph + number + `$`),
		build: func(m []string) Draft {
			return Draft{Category: models.CategoryProduct, Quantity: parseAmount(m[1]), Description: m[2], Amount: parseAmount(m[3])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:\.\d+)?)\s+` + glyph + number + `\s+` + glyph + number + `$`),
		build: func(m []string) Draft {
			return Draft{Category: models.CategoryProduct, Description: m[1], Quantity: parseAmount(m[2]), UnitPrice: models.Float(parseAmount(m[3])), Amount: parseAmount(m[4])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^([A-Z0-9\-]+)\s+(.+?)\s+(\d+(?:\.\d+)?)\s+` + glyph + number + `$`),
		build: func(m []string) Draft {
			return Draft{Category: models.CategoryProduct, ProductCode: m[1], Description: m[2], Quantity: parseAmount(m[3]), Amount: parseAmount(m[4])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^(.+?(?:GST|VAT|TAX|CGST|SGST|IGST|UTGST).*?)\s+` + glyph + number + `$`),
		build: func(m []string) Draft {
			return Draft{Category: models.CategoryTax, Description: m[1], Quantity: 1, Amount: parseAmount(m[2])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^(.+?(?:charge|fee|discount|shipping|handling|delivery).*?)\s+` + glyph + number + `$`),
		build: func(m []string) Draft {
			return Draft{Category: models.CategoryService, Description: m[1], Quantity: 1, Amount: parseAmount(m[2])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^(.+?)\s+` + glyph + number + `$`),
		build: func(m []string) Draft {
			return Draft{Category: models.CategoryOther, Description: m[1], Quantity: 1, Amount: parseAmount(m[2])}
		},
	},
}

// Parser extracts line items. It holds no per-call state.
type Parser struct {
	log zerolog.Logger
}

// NewParser returns a Parser logging under the line-items component.
func NewParser() *Parser {
	return &Parser{log: logger.WithComponent("line-items")}
}

// Parse returns the valid drafts found in text, in line order. Rejected
// candidates are dropped and only reported at debug level.
func (p *Parser) Parse(text string) []Draft {
	var drafts []Draft
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if skipLine(line) {
			continue
		}

		draft, ok := matchLine(line)
		if !ok {
			continue
		}
		draft.OriginalLine = line
		draft.Description = cleanDescription(draft.Description)

		if reason := rejectReason(draft); reason != "" {
			p.log.Debug().
				Int("line", i+1).
				Str("text", line).
				Str("reason", reason).
				Msg("Line item rejected")
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

func skipLine(line string) bool {
	if len(line) < minLineLength {
		return true
	}
	for _, re := range skipPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func matchLine(line string) (Draft, bool) {
	for i, shape := range lineShapes {
		m := shape.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := shape.build(m)
		d.Pattern = i + 1
		return d, true
	}
	return Draft{}, false
}

func rejectReason(d Draft) string {
	switch {
	case len(d.Description) < minDescription:
		return "description too short"
	case d.Amount < 0 || d.Amount > maxAmount:
		return "amount out of range"
	case d.Quantity < 0 || d.Quantity > maxQuantity:
		return "quantity out of range"
	}
	return ""
}

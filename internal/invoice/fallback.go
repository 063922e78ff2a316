package invoice

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"invoicekit/internal/fields"
	"invoicekit/internal/lineitems"
	"invoicekit/internal/logger"
	"invoicekit/pkg/models"
)

var (
	postalCode = regexp.MustCompile(`\b\d{5,6}\b`)

	// Checked in order; the first glyph present decides.
	currencyGlyphs = []struct{ glyph, code string }{
		{"₹", "INR"},
		{"$", "USD"},
		{"€", "EUR"},
		{"£", "GBP"},
	}
)

// PatternExtractor builds a record from text with regular expressions only.
type PatternExtractor struct {
	fields *fields.Extractor
	parser *lineitems.Parser
	log    zerolog.Logger
}

// NewPatternExtractor creates a pattern based extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{
		fields: fields.NewExtractor(),
		parser: lineitems.NewParser(),
		log:    logger.WithComponent("pattern-extractor"),
	}
}

// Extract always returns a record. Its confidence is FallbackConfidence and
// validation warnings are listed in the extraction metadata.
func (p *PatternExtractor) Extract(text string) *models.StructuredInvoiceData {
	started := time.Now()
	data := models.NewStructuredInvoiceData()

	if v, ok := p.fields.Extract(text, fields.InvoiceNumber); ok {
		data.InvoiceMetadata.InvoiceNumber = v
	}
	if v, ok := p.fields.Extract(text, fields.Date); ok {
		// unparseable dates stay raw so validation can flag them
		data.InvoiceMetadata.InvoiceDate = v
		if iso, ok := fields.NormalizeDate(v); ok {
			data.InvoiceMetadata.InvoiceDate = iso
		}
	}
	data.InvoiceMetadata.Currency = detectCurrency(text)

	if v, ok := p.fields.Extract(text, fields.Vendor); ok {
		data.VendorDetails.Name = v
	}
	if v, ok := p.fields.Extract(text, fields.VendorEmail); ok {
		data.VendorDetails.Contact.Email = v
	}
	if v, ok := p.fields.Extract(text, fields.VendorPhone); ok {
		data.VendorDetails.Contact.Phone = v
	}
	if v, ok := p.fields.Extract(text, fields.VendorAddress); ok {
		data.VendorDetails.Address = splitAddress(v)
	}
	if v, ok := p.fields.Extract(text, fields.Customer); ok {
		data.CustomerDetails.Name = v
	}

	symbol := models.CurrencySymbol(data.InvoiceMetadata.Currency)
	result := lineitems.Categorize(p.parser.Parse(text), symbol)
	for _, item := range result.Items() {
		data.LineItems = append(data.LineItems, toLineItem(item))
	}

	data.DeriveTotals()

	elapsed := time.Since(started).Seconds()
	meta := &data.ExtractionMetadata
	meta.Method = models.MethodRegexFallback
	meta.FallbackUsed = true
	meta.ProcessingTime = &elapsed
	data.SetConfidence(FallbackConfidence)
	meta.Errors = data.Validate()

	p.log.Debug().
		Int("line_items", len(data.LineItems)).
		Int("warnings", len(meta.Errors)).
		Msg("Pattern extraction finished")

	return data
}

func detectCurrency(text string) string {
	for _, c := range currencyGlyphs {
		if strings.Contains(text, c.glyph) {
			return c.code
		}
	}
	return models.DefaultCurrency
}

// splitAddress reads "street, city[, state postal]".
func splitAddress(raw string) models.Address {
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	var addr models.Address
	if len(parts) == 0 {
		return addr
	}
	addr.Street = parts[0]
	if len(parts) >= 2 {
		addr.City = parts[1]
	}
	if len(parts) >= 3 {
		rest := strings.Join(parts[2:], ", ")
		if code := postalCode.FindString(rest); code != "" {
			addr.PostalCode = code
			rest = strings.TrimSpace(strings.Replace(rest, code, "", 1))
			rest = strings.Trim(rest, " ,-")
		}
		addr.State = rest
	}
	return addr
}

func toLineItem(item lineitems.Item) models.LineItem {
	li := models.LineItem{
		ItemID:      item.ProductCode,
		Description: item.Description,
		Quantity:    item.Quantity,
		Category:    item.Category,
	}

	switch item.Category {
	case models.CategoryTax:
		li.TaxAmount = item.Amount
	case models.CategoryDiscount:
		li.Subtotal = -math.Abs(item.Amount)
	default:
		li.UnitPrice = item.UnitPrice
		li.Subtotal = item.Amount
	}
	return li
}

package models

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// LegacyLineItem is the flat line item shape used by older consumers.
type LegacyLineItem struct {
	Description       string   `json:"description"`
	Quantity          float64  `json:"quantity"`
	UnitPrice         *float64 `json:"unit_price"`
	Amount            float64  `json:"amount"`
	ItemType          Category `json:"item_type"`
	FormattedAmount   string   `json:"formatted_amount"`
	FormattedQuantity string   `json:"formatted_quantity"`
}

// LegacyInvoice is a one-way flat projection of StructuredInvoiceData.
type LegacyInvoice struct {
	InvoiceNumber    *string                `json:"invoice_number"`
	Date             *string                `json:"date"`
	Vendor           *string                `json:"vendor"`
	Total            *string                `json:"total"`
	LineItems        []LegacyLineItem       `json:"line_items"`
	RawText          string                 `json:"raw_text"`
	ProcessedAt      string                 `json:"processed_at"`
	ExtractionMethod string                 `json:"extraction_method"`
	StructuredData   *StructuredInvoiceData `json:"structured_data"`
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// CurrencySymbol maps an ISO code to its glyph, falling back to the code.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// FormatAmount renders v with two decimals behind symbol.
func FormatAmount(symbol string, v float64) string {
	return symbol + decimal.NewFromFloat(v).StringFixed(2)
}

// FormatQuantity renders whole quantities without decimals, others with two.
func FormatQuantity(q float64) string {
	if q == math.Trunc(q) {
		return decimal.NewFromFloat(q).StringFixed(0)
	}
	return decimal.NewFromFloat(q).StringFixed(2)
}

// ToLegacy projects the record into the flat format. The structured record
// is cloned so the projection never aliases d.
func (d *StructuredInvoiceData) ToLegacy(rawText string) LegacyInvoice {
	symbol := CurrencySymbol(d.InvoiceMetadata.Currency)

	out := LegacyInvoice{
		InvoiceNumber:    optional(d.InvoiceMetadata.InvoiceNumber),
		Date:             optional(d.InvoiceMetadata.InvoiceDate),
		Vendor:           optional(d.VendorDetails.Name),
		LineItems:        make([]LegacyLineItem, 0, len(d.LineItems)),
		RawText:          rawText,
		ProcessedAt:      d.ExtractionMetadata.ExtractedAt,
		ExtractionMethod: d.ExtractionMetadata.Method,
		StructuredData:   d.Clone(),
	}
	if d.Summary.GrandTotal != 0 {
		out.Total = optional(decimal.NewFromFloat(d.Summary.GrandTotal).StringFixed(2))
	}

	for _, item := range d.LineItems {
		out.LineItems = append(out.LineItems, LegacyLineItem{
			Description:       item.Description,
			Quantity:          item.Quantity,
			UnitPrice:         copyFloat(item.UnitPrice),
			Amount:            item.Total,
			ItemType:          item.Category,
			FormattedAmount:   FormatAmount(symbol, item.Total),
			FormattedQuantity: FormatQuantity(item.Quantity),
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

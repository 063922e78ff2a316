package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStructuredInvoiceDataDefaults(t *testing.T) {
	d := NewStructuredInvoiceData()

	assert.Equal(t, "USD", d.InvoiceMetadata.Currency)
	assert.Equal(t, "en", d.InvoiceMetadata.Language)
	assert.Equal(t, MethodUnknown, d.ExtractionMetadata.Method)
	assert.NotEmpty(t, d.ExtractionMetadata.ExtractedAt)
	assert.False(t, d.ExtractionMetadata.FallbackUsed)
	assert.Nil(t, d.ExtractionMetadata.ConfidenceScore)
	assert.Empty(t, d.LineItems)
}

func TestAddressComplete(t *testing.T) {
	assert.False(t, Address{}.Complete())
	assert.False(t, Address{Street: "1 Main St"}.Complete())
	assert.True(t, Address{Street: "1 Main St", City: "Springfield"}.Complete())
}

func TestLineItemDeriveTotals(t *testing.T) {
	tests := []struct {
		name     string
		item     LineItem
		subtotal float64
		tax      float64
		total    float64
	}{
		{
			name:     "quantity times unit price",
			item:     LineItem{Quantity: 3, UnitPrice: Float(10)},
			subtotal: 30,
			total:    30,
		},
		{
			name:     "tax rate applied",
			item:     LineItem{Quantity: 2, UnitPrice: Float(50), TaxRate: 0.18},
			subtotal: 100,
			tax:      18,
			total:    118,
		},
		{
			name:     "no unit price keeps subtotal",
			item:     LineItem{Quantity: 1, Subtotal: 42},
			subtotal: 42,
			total:    42,
		},
		{
			name:     "explicit tax amount without rate",
			item:     LineItem{Quantity: 1, TaxAmount: 7},
			subtotal: 0,
			tax:      7,
			total:    7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			item.DeriveTotals()
			assert.InDelta(t, tt.subtotal, item.Subtotal, 1e-9)
			assert.InDelta(t, tt.tax, item.TaxAmount, 1e-9)
			assert.InDelta(t, tt.total, item.Total, 1e-9)
		})
	}
}

func TestDeriveTotalsSummary(t *testing.T) {
	d := NewStructuredInvoiceData()
	d.LineItems = []LineItem{
		{Description: "Widget", Quantity: 2, UnitPrice: Float(25), Category: CategoryProduct},
		{Description: "Support", Quantity: 1, Subtotal: 100, TaxRate: 0.1, Category: CategoryService},
		{Description: "CGST", Quantity: 1, TaxAmount: 18, Category: CategoryTax},
	}
	d.Summary.Shipping = 5
	d.Summary.Discounts = 15

	d.DeriveTotals()

	assert.InDelta(t, 150, d.Summary.Subtotal, 1e-9)
	assert.InDelta(t, 28, d.Summary.TotalTax, 1e-9)
	assert.InDelta(t, 150+28+5-15, d.Summary.GrandTotal, 1e-9)

	first := d.Clone()
	d.DeriveTotals()
	assert.Equal(t, first.Summary, d.Summary)
	assert.Equal(t, first.LineItems, d.LineItems)
}

func TestCloneDoesNotAlias(t *testing.T) {
	d := NewStructuredInvoiceData()
	d.LineItems = append(d.LineItems, LineItem{Description: "Widget", UnitPrice: Float(3)})
	d.SetConfidence(0.8)

	c := d.Clone()
	*c.LineItems[0].UnitPrice = 99
	c.LineItems[0].Description = "Changed"
	*c.ExtractionMetadata.ConfidenceScore = 0.1

	assert.Equal(t, 3.0, *d.LineItems[0].UnitPrice)
	assert.Equal(t, "Widget", d.LineItems[0].Description)
	assert.Equal(t, 0.8, d.Confidence())
}

func TestValidate(t *testing.T) {
	d := NewStructuredInvoiceData()
	d.InvoiceMetadata.InvoiceDate = "13/08/2024"
	d.InvoiceMetadata.DueDate = "2024-09-13"
	d.VendorDetails.Contact.Email = "not-an-email"
	d.CustomerDetails.Contact.Email = "buyer@example.com"
	d.LineItems = []LineItem{
		{Description: "Fine", Quantity: 1},
		{Quantity: -1, UnitPrice: Float(-2), TaxRate: 1.5},
	}

	problems := d.Validate()

	assert.Equal(t, []string{
		"Invoice date must be in YYYY-MM-DD format",
		"Invalid vendor email format",
		"Line item 2: Line item description is required",
		"Line item 2: Quantity cannot be negative",
		"Line item 2: Unit price cannot be negative",
		"Line item 2: Tax rate must be between 0 and 1",
	}, problems)
}

func TestValidateCleanRecord(t *testing.T) {
	d := NewStructuredInvoiceData()
	d.InvoiceMetadata.InvoiceDate = "2024-08-13"
	assert.Empty(t, d.Validate())
}

func TestToLegacy(t *testing.T) {
	d := NewStructuredInvoiceData()
	d.ExtractionMetadata.Method = MethodRegexFallback
	d.InvoiceMetadata.InvoiceNumber = "INV-1"
	d.InvoiceMetadata.Currency = "INR"
	d.VendorDetails.Name = "ACME Corp"
	d.LineItems = []LineItem{
		{Description: "Widget", Quantity: 2, UnitPrice: Float(12.5), Category: CategoryProduct},
		{Description: "Hours", Quantity: 1.5, Subtotal: 30, Category: CategoryService},
	}
	d.DeriveTotals()

	legacy := d.ToLegacy("raw")

	require.NotNil(t, legacy.InvoiceNumber)
	assert.Equal(t, "INV-1", *legacy.InvoiceNumber)
	assert.Nil(t, legacy.Date)
	require.NotNil(t, legacy.Total)
	assert.Equal(t, "55.00", *legacy.Total)
	assert.Equal(t, "raw", legacy.RawText)
	assert.Equal(t, MethodRegexFallback, legacy.ExtractionMethod)
	require.Len(t, legacy.LineItems, 2)
	assert.Equal(t, "₹25.00", legacy.LineItems[0].FormattedAmount)
	assert.Equal(t, "2", legacy.LineItems[0].FormattedQuantity)
	assert.Equal(t, "1.50", legacy.LineItems[1].FormattedQuantity)
	assert.Equal(t, CategoryService, legacy.LineItems[1].ItemType)

	legacy.StructuredData.LineItems[0].Description = "Other"
	assert.Equal(t, "Widget", d.LineItems[0].Description)
}

func TestToLegacyZeroTotal(t *testing.T) {
	legacy := NewStructuredInvoiceData().ToLegacy("")
	assert.Nil(t, legacy.Total)
	assert.Empty(t, legacy.LineItems)
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("usd"))
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "CHF", CurrencySymbol("CHF"))
}

func TestCloneKeepsEmptySlices(t *testing.T) {
	c := NewStructuredInvoiceData().Clone()

	assert.NotNil(t, c.ExtractionMetadata.Errors)
	assert.NotNil(t, c.LineItems)
	assert.NotNil(t, c.Summary.TaxBreakdown)
	assert.NotNil(t, c.PaymentTerms.PaymentMethods)
	assert.NotNil(t, c.AdditionalInfo.ReferenceNumbers)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tax_breakdown":[]`)
	assert.Contains(t, string(out), `"reference_numbers":[]`)
}

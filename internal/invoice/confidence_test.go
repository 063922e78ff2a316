package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicekit/pkg/models"
)

func goodItem() models.LineItem {
	return models.LineItem{Description: "Widget", Quantity: 1, Subtotal: 1, Total: 1}
}

func TestScoreConfidenceWeights(t *testing.T) {
	tests := []struct {
		name string
		set  func(d *models.StructuredInvoiceData)
		want float64
	}{
		{"empty", func(d *models.StructuredInvoiceData) {}, 0},
		{"invoice number", func(d *models.StructuredInvoiceData) { d.InvoiceMetadata.InvoiceNumber = "A-1" }, 0.1},
		{"invoice date", func(d *models.StructuredInvoiceData) { d.InvoiceMetadata.InvoiceDate = "2024-08-13" }, 0.1},
		{"vendor name", func(d *models.StructuredInvoiceData) { d.VendorDetails.Name = "Globex" }, 0.15},
		{"vendor street", func(d *models.StructuredInvoiceData) { d.VendorDetails.Address.Street = "1 Main St" }, 0.1},
		{"vendor city", func(d *models.StructuredInvoiceData) { d.VendorDetails.Address.City = "Springfield" }, 0.1},
		{"vendor email", func(d *models.StructuredInvoiceData) { d.VendorDetails.Contact.Email = "a@b.example" }, 0.05},
		{"vendor phone", func(d *models.StructuredInvoiceData) { d.VendorDetails.Contact.Phone = "5551234567" }, 0.05},
		{"bare item", func(d *models.StructuredInvoiceData) { d.LineItems = []models.LineItem{{}} }, 0.1},
		{"good item", func(d *models.StructuredInvoiceData) { d.LineItems = []models.LineItem{goodItem()} }, 0.15},
		{"grand total", func(d *models.StructuredInvoiceData) { d.Summary.GrandTotal = 10 }, 0.1},
		{"subtotal", func(d *models.StructuredInvoiceData) { d.Summary.Subtotal = 10 }, 0.1},
		{"total tax", func(d *models.StructuredInvoiceData) { d.Summary.TotalTax = 1 }, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.NewStructuredInvoiceData()
			tt.set(d)
			assert.InDelta(t, tt.want, ScoreConfidence(d), 1e-9)
		})
	}
}

func TestScoreConfidenceItemBonusCapped(t *testing.T) {
	d := models.NewStructuredInvoiceData()
	for i := 0; i < 4; i++ {
		d.LineItems = append(d.LineItems, goodItem())
	}
	assert.InDelta(t, 0.3, ScoreConfidence(d), 1e-9)

	for i := 0; i < 6; i++ {
		d.LineItems = append(d.LineItems, goodItem())
	}
	assert.InDelta(t, 0.3, ScoreConfidence(d), 1e-9)
}

func TestScoreConfidenceClamped(t *testing.T) {
	d := models.NewStructuredInvoiceData()
	d.InvoiceMetadata.InvoiceNumber = "A-1"
	d.InvoiceMetadata.InvoiceDate = "2024-08-13"
	d.VendorDetails.Name = "Globex"
	d.VendorDetails.Address.Street = "1 Main St"
	d.VendorDetails.Contact.Email = "a@b.example"
	for i := 0; i < 10; i++ {
		d.LineItems = append(d.LineItems, goodItem())
	}
	d.Summary.GrandTotal = 10
	d.Summary.Subtotal = 10

	assert.InDelta(t, 1.0, ScoreConfidence(d), 1e-9)
	assert.Equal(t, 1.0, normalizeScore(25))
	assert.Equal(t, 0.5, normalizeScore(5))
}

func TestScoreConfidenceInvoiceNumberNeverLowers(t *testing.T) {
	records := []*models.StructuredInvoiceData{
		models.NewStructuredInvoiceData(),
		richInvoice(),
	}
	partial := models.NewStructuredInvoiceData()
	partial.VendorDetails.Name = "Globex"
	partial.LineItems = []models.LineItem{goodItem(), goodItem()}
	records = append(records, partial)

	for _, d := range records {
		before := ScoreConfidence(d)
		d.InvoiceMetadata.InvoiceNumber = "INV-9"
		assert.GreaterOrEqual(t, ScoreConfidence(d), before)
	}
}

func TestScoreConfidenceNil(t *testing.T) {
	assert.Zero(t, ScoreConfidence(nil))
}

func TestGuardedScoreRecovers(t *testing.T) {
	got := guardedScore(func() float64 { panic("broken record") })
	assert.Equal(t, 0.5, got)

	assert.Equal(t, 0.25, guardedScore(func() float64 { return 0.25 }))
}

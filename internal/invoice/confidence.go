package invoice

import (
	"math"

	"invoicekit/pkg/models"
)

// Weights on a ten point scale.
const (
	weightInvoiceNumber = 1.0
	weightInvoiceDate   = 1.0
	weightVendorName    = 1.5
	weightVendorAddress = 1.0
	weightVendorContact = 0.5
	weightHasItems      = 1.0
	weightPerGoodItem   = 0.5
	maxGoodItemBonus    = 2.0
	weightGrandTotal    = 1.0
	weightBreakdown     = 1.0
	scoreScale          = 10.0

	// FallbackConfidence is reported for every pattern based result.
	FallbackConfidence = 0.6

	defaultScore = 0.5
)

// ScoreConfidence rates how complete d is, in [0, 1]. Each criterion is
// awarded independently; a missing part contributes nothing. If scoring
// fails for any reason the score is 0.5.
func ScoreConfidence(d *models.StructuredInvoiceData) float64 {
	if d == nil {
		return 0
	}
	return guardedScore(func() float64 { return normalizeScore(rawScore(d)) })
}

func normalizeScore(raw float64) float64 {
	return math.Min(1, raw/scoreScale)
}

// guardedScore runs score and returns defaultScore if it panics.
func guardedScore(score func() float64) (s float64) {
	defer func() {
		if r := recover(); r != nil {
			s = defaultScore
		}
	}()
	return score()
}

func rawScore(d *models.StructuredInvoiceData) float64 {
	var raw float64
	if d.InvoiceMetadata.InvoiceNumber != "" {
		raw += weightInvoiceNumber
	}
	if d.InvoiceMetadata.InvoiceDate != "" {
		raw += weightInvoiceDate
	}

	v := d.VendorDetails
	if v.Name != "" {
		raw += weightVendorName
	}
	if v.Address.Street != "" || v.Address.City != "" {
		raw += weightVendorAddress
	}
	if v.Contact.Email != "" || v.Contact.Phone != "" {
		raw += weightVendorContact
	}

	if len(d.LineItems) > 0 {
		raw += weightHasItems
		var bonus float64
		for _, item := range d.LineItems {
			if item.Description != "" && item.Quantity > 0 {
				bonus += weightPerGoodItem
			}
		}
		raw += math.Min(bonus, maxGoodItemBonus)
	}

	s := d.Summary
	if s.GrandTotal > 0 {
		raw += weightGrandTotal
	}
	if s.Subtotal > 0 || s.TotalTax > 0 {
		raw += weightBreakdown
	}

	return raw
}

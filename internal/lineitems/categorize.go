package lineitems

import (
	"strings"

	"github.com/shopspring/decimal"

	"invoicekit/pkg/models"
)

var (
	taxWords     = []string{"gst", "vat", "tax", "cgst", "sgst", "igst", "utgst"}
	serviceWords = []string{"shipping", "delivery", "handling", "fee", "charge"}
)

// Item is a categorized draft with display strings.
type Item struct {
	Draft
	FormattedAmount   string
	FormattedQuantity string
}

// Summary aggregates a categorization. Discounts do not contribute.
type Summary struct {
	TotalItems int
	Subtotal   float64
	TaxTotal   float64
	GrandTotal float64
}

// Result holds the buckets in their fixed output order.
type Result struct {
	Products  []Item
	Services  []Item
	Taxes     []Item
	Discounts []Item
	Other     []Item
	Summary   Summary
}

// Items returns products, services, taxes, discounts and other, in that
// order.
func (r Result) Items() []Item {
	out := make([]Item, 0, len(r.Products)+len(r.Services)+len(r.Taxes)+len(r.Discounts)+len(r.Other))
	out = append(out, r.Products...)
	out = append(out, r.Services...)
	out = append(out, r.Taxes...)
	out = append(out, r.Discounts...)
	return append(out, r.Other...)
}

// Categorize assigns each draft to exactly one bucket. The first matching
// rule wins: tax, discount, service, product, other. Each item's Category
// is set to its bucket.
func Categorize(drafts []Draft, currencySymbol string) Result {
	var (
		res      Result
		subtotal = decimal.Zero
		tax      = decimal.Zero
	)

	for _, d := range drafts {
		desc := strings.ToLower(d.Description)
		amount := decimal.NewFromFloat(d.Amount)

		switch {
		case d.Category == models.CategoryTax || containsAny(desc, taxWords):
			d.Category = models.CategoryTax
			res.Taxes = append(res.Taxes, format(d, currencySymbol))
			tax = tax.Add(amount)
		case strings.Contains(desc, "discount") || d.Amount < 0:
			d.Category = models.CategoryDiscount
			res.Discounts = append(res.Discounts, format(d, currencySymbol))
		case d.Category == models.CategoryService || containsAny(desc, serviceWords):
			d.Category = models.CategoryService
			res.Services = append(res.Services, format(d, currencySymbol))
			subtotal = subtotal.Add(amount)
		case d.Category == models.CategoryProduct:
			res.Products = append(res.Products, format(d, currencySymbol))
			subtotal = subtotal.Add(amount)
		default:
			d.Category = models.CategoryOther
			res.Other = append(res.Other, format(d, currencySymbol))
			subtotal = subtotal.Add(amount)
		}
	}

	res.Summary = Summary{
		TotalItems: len(drafts),
		Subtotal:   subtotal.InexactFloat64(),
		TaxTotal:   tax.InexactFloat64(),
		GrandTotal: subtotal.Add(tax).InexactFloat64(),
	}
	return res
}

func format(d Draft, symbol string) Item {
	return Item{
		Draft:             d,
		FormattedAmount:   models.FormatAmount(symbol, d.Amount),
		FormattedQuantity: models.FormatQuantity(d.Quantity),
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

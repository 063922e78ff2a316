package models

// DeriveTotals recomputes subtotal, tax amount and total from the item's
// own fields. Calling it repeatedly yields the same result.
func (li *LineItem) DeriveTotals() {
	if li.UnitPrice != nil {
		li.Subtotal = li.Quantity * *li.UnitPrice
	}
	if li.TaxRate > 0 {
		li.TaxAmount = li.Subtotal * li.TaxRate
	}
	if li.TaxAmount > 0 {
		li.Total = li.Subtotal + li.TaxAmount
	} else {
		li.Total = li.Subtotal
	}
}

// DeriveTotals recomputes the summary from items. Items in the tax category
// contribute only through their tax amount. Shipping and discounts are taken
// as given.
func (s *Summary) DeriveTotals(items []LineItem) {
	var subtotal, tax float64
	for _, item := range items {
		if item.Category != CategoryTax {
			subtotal += item.Subtotal
		}
		tax += item.TaxAmount
	}
	s.Subtotal = subtotal
	s.TotalTax = tax
	s.GrandTotal = subtotal + tax + s.Shipping - s.Discounts
}

// DeriveTotals refreshes every line item and then the summary.
func (d *StructuredInvoiceData) DeriveTotals() {
	for i := range d.LineItems {
		d.LineItems[i].DeriveTotals()
	}
	d.Summary.DeriveTotals(d.LineItems)
}

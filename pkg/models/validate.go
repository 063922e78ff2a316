package models

import (
	"fmt"
	"regexp"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidEmail reports whether the contact email is well formed.
func (c Contact) ValidEmail() bool {
	return emailPattern.MatchString(c.Email)
}

// Validate returns the item's problems, or nil.
func (li LineItem) Validate() []string {
	var problems []string
	if li.Description == "" {
		problems = append(problems, "Line item description is required")
	}
	if li.Quantity < 0 {
		problems = append(problems, "Quantity cannot be negative")
	}
	if li.UnitPrice != nil && *li.UnitPrice < 0 {
		problems = append(problems, "Unit price cannot be negative")
	}
	if li.TaxRate < 0 || li.TaxRate > 1 {
		problems = append(problems, "Tax rate must be between 0 and 1")
	}
	return problems
}

// Validate performs soft structural checks. The result is advisory and is
// usually stored in ExtractionMetadata.Errors.
func (d *StructuredInvoiceData) Validate() []string {
	problems := []string{}
	if d == nil {
		return problems
	}

	if v := d.InvoiceMetadata.InvoiceDate; v != "" && !isoDatePattern.MatchString(v) {
		problems = append(problems, "Invoice date must be in YYYY-MM-DD format")
	}
	if v := d.InvoiceMetadata.DueDate; v != "" && !isoDatePattern.MatchString(v) {
		problems = append(problems, "Due date must be in YYYY-MM-DD format")
	}
	if c := d.VendorDetails.Contact; c.Email != "" && !c.ValidEmail() {
		problems = append(problems, "Invalid vendor email format")
	}
	if c := d.CustomerDetails.Contact; c.Email != "" && !c.ValidEmail() {
		problems = append(problems, "Invalid customer email format")
	}

	for i, item := range d.LineItems {
		for _, p := range item.Validate() {
			problems = append(problems, fmt.Sprintf("Line item %d: %s", i+1, p))
		}
	}
	return problems
}
